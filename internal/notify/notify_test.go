package notify

import (
	"testing"
	"time"
)

func TestExpireTimeout(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    int32
	}{
		{0, -1},
		{-time.Second, -1},
		{1500 * time.Millisecond, 1500},
		{5 * time.Second, 5000},
		{1000 * time.Hour, 1<<31 - 1},
	}
	for _, tt := range tests {
		n := Notification{Timeout: tt.timeout}
		if got := n.expireTimeout(); got != tt.want {
			t.Errorf("expireTimeout(%v) = %d, want %d", tt.timeout, got, tt.want)
		}
	}
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = noopNotifier{}

	id, err := n.Notify(Notification{Summary: "x"})
	if err != nil || id != 0 {
		t.Errorf("Notify() = %d, %v; want 0, nil", id, err)
	}
	if err := n.Close(3); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
