package engine

import "testing"

func TestEventInvoke(t *testing.T) {
	var e Event
	count := 0
	e.AddListener(func() { count++ })
	e.AddListener(func() { count++ })
	e.AddListener(nil)

	e.Invoke()
	if count != 2 {
		t.Errorf("Expected 2 listener calls, got %d", count)
	}
	if e.ListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.ListenerCount())
	}

	e.RemoveAllListeners()
	e.Invoke()
	if count != 2 {
		t.Error("Invoke after RemoveAllListeners should call nothing")
	}
}

func TestEventWithArg(t *testing.T) {
	var e EventWithArg[int]
	sum := 0
	e.AddListener(func(v int) { sum += v })

	e.Invoke(3)
	e.Invoke(4)
	if sum != 7 {
		t.Errorf("Expected sum 7, got %d", sum)
	}
}
