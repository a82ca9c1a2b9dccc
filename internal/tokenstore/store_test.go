package tokenstore_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
	_ "github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore/loader"
)

func TestAvailableDrivers(t *testing.T) {
	got := tokenstore.AvailableDrivers()
	for _, want := range []string{"json", "memory", "sqlite"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected driver %q to be registered, got %v", want, got)
		}
	}
	if !slices.IsSorted(got) {
		t.Errorf("expected sorted driver names, got %v", got)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	if _, err := tokenstore.New(&tokenstore.DriverConfig{Driver: "keychain"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpen_WrapsInitError(t *testing.T) {
	sentinel := errors.New("disk on fire")
	tokenstore.Register("failing-init", func(cfg *tokenstore.DriverConfig) (tokenstore.Store, error) {
		return failingStore{err: sentinel}, nil
	})

	_, err := tokenstore.Open(context.Background(), &tokenstore.DriverConfig{Driver: "failing-init"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped init error, got %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	if err := tokenstore.ValidateKey(tokenstore.AccessTokenKey); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := tokenstore.ValidateKey(""); !errors.Is(err, tokenstore.ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

type failingStore struct {
	err error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (f failingStore) Set(context.Context, string, string) error         { return nil }
func (f failingStore) Delete(context.Context, string) error              { return nil }
func (f failingStore) Init(context.Context) error                        { return f.err }
func (f failingStore) Close() error                                      { return nil }
func (f failingStore) Name() string                                      { return "failing-init" }
