package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/keyremap/internal/remap"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	var gotArgs any
	r.Register("b.cmd", func(_ context.Context, _ *Session, args any) error {
		gotArgs = args
		return nil
	})
	r.Register("a.cmd", func(context.Context, *Session, any) error { return nil })

	if got := r.Names(); !reflect.DeepEqual(got, []string{"a.cmd", "b.cmd"}) {
		t.Errorf("Names() = %v", got)
	}

	sess := New(remap.Config{}, WithRegistry(r))
	args := map[string]any{"n": 1}
	if err := r.Execute(context.Background(), sess, "b.cmd", args); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotArgs, args) {
		t.Errorf("args = %v, want %v", gotArgs, args)
	}

	r.Unregister("b.cmd")
	if _, ok := r.Get("b.cmd"); ok {
		t.Error("Get() found an unregistered command")
	}
	err := r.Execute(context.Background(), sess, "b.cmd", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("error = %v, want ErrUnknownCommand", err)
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	r.Register("x", func(context.Context, *Session, any) error { return errors.New("old") })
	r.Register("x", func(context.Context, *Session, any) error { return nil })

	if err := r.Execute(context.Background(), New(remap.Config{}), "x", nil); err != nil {
		t.Errorf("Execute() = %v, want the replacement to run", err)
	}
}
