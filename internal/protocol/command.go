package protocol

import (
	"strconv"
	"strings"

	"github.com/kvshard/kvshard/internal/shard"
)

// parseCommand turns one protocol line into a Request. The second return
// value is false for anything that doesn't parse as a recognized
// command — callers must silently ignore the line in that case rather
// than reply or close the connection (spec §7).
func parseCommand(line string) (*shard.Request, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}

	switch fields[0] {
	case "PING":
		if len(fields) != 1 {
			return nil, false
		}
		return shard.NewRequest(shard.OpPing, nil, nil, 0), true

	case "SET":
		if len(fields) != 3 {
			return nil, false
		}
		return shard.NewRequest(shard.OpSet, []byte(fields[1]), []byte(fields[2]), 0), true

	case "SETEX":
		if len(fields) != 4 {
			return nil, false
		}
		ttl, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, false
		}
		return shard.NewRequest(shard.OpSetEx, []byte(fields[1]), []byte(fields[2]), ttl), true

	case "GET":
		if len(fields) != 2 {
			return nil, false
		}
		return shard.NewRequest(shard.OpGet, []byte(fields[1]), nil, 0), true

	case "DEL":
		if len(fields) != 2 {
			return nil, false
		}
		return shard.NewRequest(shard.OpDel, []byte(fields[1]), nil, 0), true

	case "EX":
		if len(fields) != 2 {
			return nil, false
		}
		return shard.NewRequest(shard.OpExists, []byte(fields[1]), nil, 0), true

	case "EXPIRE":
		if len(fields) != 3 {
			return nil, false
		}
		ttl, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, false
		}
		return shard.NewRequest(shard.OpExpire, []byte(fields[1]), nil, ttl), true

	case "TTL":
		if len(fields) != 2 {
			return nil, false
		}
		return shard.NewRequest(shard.OpTTL, []byte(fields[1]), nil, 0), true

	default:
		return nil, false
	}
}
