package immediateticker_test

import (
	"testing"
	"time"

	immediateticker "kokorotts/pkg/immediate_ticker"

	"github.com/stretchr/testify/require"
)

func TestFirstTickIsImmediate(t *testing.T) {
	ticker := immediateticker.New(time.Hour)
	defer ticker.Stop()

	select {
	case <-ticker.C:
	case <-time.After(time.Second):
		t.Fatal("no immediate tick")
	}
}

func TestTicksOnInterval(t *testing.T) {
	ticker := immediateticker.New(10 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-ticker.C:
		case <-time.After(time.Second):
			t.Fatalf("tick %d not delivered", i)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	ticker := immediateticker.New(time.Hour)

	<-ticker.C

	require.NotPanics(t, func() {
		ticker.Stop()
		ticker.Stop()
	})

	select {
	case <-ticker.C:
		t.Fatal("tick after stop")
	case <-time.After(50 * time.Millisecond):
	}
}
