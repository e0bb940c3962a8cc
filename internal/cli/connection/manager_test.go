package connection

import "testing"

func TestNewManager(t *testing.T) {
	m := NewManager()
	if m.Current() != nil {
		t.Error("new manager should have no current connection")
	}
}

func TestManager_Connect(t *testing.T) {
	m := NewManager()

	conn := &Connection{Name: "test", Server: "localhost:3000"}

	if err := m.Connect(conn); err != nil {
		t.Errorf("Connect failed: %v", err)
	}
	if m.Current() != conn {
		t.Error("Current() should return the connected connection")
	}
	if !m.IsConnected() {
		t.Error("IsConnected() should return true after Connect")
	}
}

func TestManager_Disconnect(t *testing.T) {
	m := NewManager()
	_ = m.Connect(&Connection{Name: "test", Server: "localhost:3000"})
	m.Disconnect()

	if m.Current() != nil {
		t.Error("Current() should return nil after Disconnect")
	}
	if m.IsConnected() {
		t.Error("IsConnected() should return false after Disconnect")
	}
}
