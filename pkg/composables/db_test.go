package composables

import (
	"context"
	"errors"
	"testing"

	"github.com/opsdesk/backoffice/pkg/constants"
)

func TestInTx_WithoutPoolRunsCallback(t *testing.T) {
	ctx := context.Background()
	called := false
	err := InTx(ctx, func(txCtx context.Context) error {
		called = true
		if txCtx != ctx {
			t.Error("context should pass through unchanged without a pool")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("callback should run")
	}
}

func TestInTx_JoinsExistingTransaction(t *testing.T) {
	ctx := context.WithValue(context.Background(), constants.TxKey, struct{}{})
	called := false
	err := InTx(ctx, func(txCtx context.Context) error {
		called = true
		if txCtx.Value(constants.TxKey) == nil {
			t.Error("ambient transaction should stay in context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("callback should run")
	}
}

func TestInTxResult_PropagatesValueAndError(t *testing.T) {
	got, err := InTxResult(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	wantErr := errors.New("boom")
	_, err = InTxResult(context.Background(), func(context.Context) (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}
