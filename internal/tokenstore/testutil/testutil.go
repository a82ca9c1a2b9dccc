// Package testutil provides shared test helpers for token store driver tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
)

// TestToken is a bearer token shaped like the ones the login flow stores.
const TestToken = "eyJhbGciOiJIUzI1NiJ9.test-payload.test-signature"

// RunDriverTests runs the standard test suite against a driver.
func RunDriverTests(t *testing.T, driverName string, cfg *tokenstore.DriverConfig) {
	ctx := context.Background()

	s, err := tokenstore.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to open %s driver: %v", driverName, err)
	}
	defer s.Close()

	if s.Name() != driverName {
		t.Errorf("expected driver name %s, got %s", driverName, s.Name())
	}

	t.Run("MissingKey", func(t *testing.T) {
		v, ok, err := s.Get(ctx, tokenstore.AccessTokenKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok || v != "" {
			t.Errorf("expected missing key, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		if err := s.Set(ctx, tokenstore.AccessTokenKey, TestToken); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, ok, err := s.Get(ctx, tokenstore.AccessTokenKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok || v != TestToken {
			t.Errorf("expected %q, got %q (ok=%v)", TestToken, v, ok)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := s.Set(ctx, tokenstore.AccessTokenKey, "rotated"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, _, err := s.Get(ctx, tokenstore.AccessTokenKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if v != "rotated" {
			t.Errorf("expected overwritten value, got %q", v)
		}
	})

	t.Run("EmptyValueIsStored", func(t *testing.T) {
		if err := s.Set(ctx, "refresh_token", ""); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, ok, err := s.Get(ctx, "refresh_token")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok || v != "" {
			t.Errorf("expected stored empty value, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, tokenstore.AccessTokenKey); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, ok, _ := s.Get(ctx, tokenstore.AccessTokenKey); ok {
			t.Error("expected key to be gone after Delete")
		}
		// Deleting again is not an error.
		if err := s.Delete(ctx, tokenstore.AccessTokenKey); err != nil {
			t.Errorf("second Delete failed: %v", err)
		}
	})

	t.Run("EmptyKey", func(t *testing.T) {
		if _, _, err := s.Get(ctx, ""); !errors.Is(err, tokenstore.ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey from Get, got %v", err)
		}
		if err := s.Set(ctx, "", "x"); !errors.Is(err, tokenstore.ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey from Set, got %v", err)
		}
	})

	t.Run("ConcurrentReads", func(t *testing.T) {
		if err := s.Set(ctx, tokenstore.AccessTokenKey, TestToken); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		var wg sync.WaitGroup
		errs := make(chan error, 16)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, ok, err := s.Get(ctx, tokenstore.AccessTokenKey)
				if err != nil {
					errs <- err
					return
				}
				if !ok || v != TestToken {
					errs <- fmt.Errorf("unexpected value %q (ok=%v)", v, ok)
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Error(err)
		}
	})
}

// RunClosedTests checks that a closed driver rejects operations.
func RunClosedTests(t *testing.T, cfg *tokenstore.DriverConfig) {
	ctx := context.Background()

	s, err := tokenstore.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to open driver: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, _, err := s.Get(ctx, tokenstore.AccessTokenKey); !errors.Is(err, tokenstore.ErrClosed) {
		t.Errorf("expected ErrClosed from Get, got %v", err)
	}
	if err := s.Set(ctx, tokenstore.AccessTokenKey, "x"); !errors.Is(err, tokenstore.ErrClosed) {
		t.Errorf("expected ErrClosed from Set, got %v", err)
	}
	if err := s.Delete(ctx, tokenstore.AccessTokenKey); !errors.Is(err, tokenstore.ErrClosed) {
		t.Errorf("expected ErrClosed from Delete, got %v", err)
	}
}
