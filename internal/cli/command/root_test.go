package command

import "testing"

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}
	if app.Name != "kvshard-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "kvshard-cli")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}

	requiredCommands := []string{"ping", "get", "set", "setex", "del", "exists", "expire", "ttl"}
	for _, name := range requiredCommands {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}

	for _, name := range []string{"server", "output"} {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}
