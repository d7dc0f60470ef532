package keycode

import "testing"

func TestImmediateBufferReleasesEverything(t *testing.T) {
	b := NewImmediateBuffer()
	out := b.Add(SimpleKey(1), Pressed)
	if len(out) != 1 || out[0].Key != SimpleKey(1) || out[0].Change != Pressed {
		t.Fatalf("expected immediate pass-through, got %v", out)
	}
}

func TestWhenFullBufferQueuesThenFlushes(t *testing.T) {
	b := NewWhenFullBuffer(2)
	out := b.Add(SimpleKey(1), Pressed)
	if out != nil {
		t.Fatalf("expected nothing released yet, got %v", out)
	}

	out = b.Add(SimpleKey(2), Pressed)
	if len(out) != 2 {
		t.Fatalf("expected both queued sends to flush, got %v", out)
	}
	if out[0].Key != SimpleKey(1) || out[1].Key != SimpleKey(2) {
		t.Fatalf("expected flush order preserved, got %v", out)
	}
}

func TestWhenFullBufferRevertsToImmediateAfterFlush(t *testing.T) {
	b := NewWhenFullBuffer(2)
	b.Add(SimpleKey(1), Pressed)
	b.Add(SimpleKey(2), Pressed) // triggers the flush, reverts to Immediately

	out := b.Add(SimpleKey(3), Pressed)
	if len(out) != 1 || out[0].Key != SimpleKey(3) {
		t.Fatalf("expected the buffer to behave immediately post-flush, got %v", out)
	}
}
