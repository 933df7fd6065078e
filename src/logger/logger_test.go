package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestFromContextReturnsStoredLogger(t *testing.T) {
	InitLogger("error")

	scoped := L.With("userID", int64(7))
	ctx := WithContext(context.Background(), scoped)

	if got := FromContext(ctx); got != scoped {
		t.Errorf("FromContext returned %v, want the logger stored with WithContext", got)
	}
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	InitLogger("error")

	if got := FromContext(context.Background()); got != L {
		t.Errorf("FromContext on a bare context returned %v, want the global logger", got)
	}
}

func TestFromContextIgnoresForeignValues(t *testing.T) {
	InitLogger("error")

	type otherKey struct{}
	ctx := context.WithValue(context.Background(), otherKey{}, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if got := FromContext(ctx); got != L {
		t.Errorf("FromContext returned %v, want the global logger", got)
	}
}
