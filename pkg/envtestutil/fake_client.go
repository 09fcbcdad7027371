// Package envtestutil wraps the controller-runtime fake client with fault
// injection, so reconciler tests can drive the error paths the fake client
// alone never exercises: apply failures mid-plan, cleanup failures during
// finalization, status writes racing a stale read.
package envtestutil

import (
	"context"
	"errors"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Hook inspects an object about to be written and decides whether the
// operation fails instead. A nil Hook never fires.
type Hook func(obj client.Object) error

// FailureConfig holds one Hook per client verb. Zero-valued fields leave
// that verb untouched.
type FailureConfig struct {
	OnGet          Hook
	OnList         func(list client.ObjectList) error
	OnCreate       Hook
	OnUpdate       Hook
	OnDelete       Hook
	OnStatusUpdate Hook
}

func (h Hook) fire(obj client.Object) error {
	if h == nil {
		return nil
	}
	return h(obj)
}

// NewFakeClientWithFailures wraps base so the configured hooks run before
// each verb reaches it. Reads and writes that no hook rejects pass through
// unchanged.
func NewFakeClientWithFailures(base client.Client, cfg *FailureConfig) client.Client {
	if cfg == nil {
		cfg = &FailureConfig{}
	}
	return &faultClient{Client: base, cfg: cfg}
}

type faultClient struct {
	client.Client
	cfg *FailureConfig
}

func (c *faultClient) Get(ctx context.Context, key client.ObjectKey, obj client.Object, opts ...client.GetOption) error {
	if c.cfg.OnGet != nil {
		// The hook matches on the request name, so hand it a copy carrying
		// the key before the fake client fills the object in.
		requested := obj.DeepCopyObject().(client.Object)
		requested.SetName(key.Name)
		requested.SetNamespace(key.Namespace)
		if err := c.cfg.OnGet(requested); err != nil {
			return err
		}
	}
	return c.Client.Get(ctx, key, obj, opts...)
}

func (c *faultClient) List(ctx context.Context, list client.ObjectList, opts ...client.ListOption) error {
	if c.cfg.OnList != nil {
		if err := c.cfg.OnList(list); err != nil {
			return err
		}
	}
	return c.Client.List(ctx, list, opts...)
}

func (c *faultClient) Create(ctx context.Context, obj client.Object, opts ...client.CreateOption) error {
	if err := c.cfg.OnCreate.fire(obj); err != nil {
		return err
	}
	return c.Client.Create(ctx, obj, opts...)
}

func (c *faultClient) Update(ctx context.Context, obj client.Object, opts ...client.UpdateOption) error {
	if err := c.cfg.OnUpdate.fire(obj); err != nil {
		return err
	}
	return c.Client.Update(ctx, obj, opts...)
}

func (c *faultClient) Delete(ctx context.Context, obj client.Object, opts ...client.DeleteOption) error {
	if err := c.cfg.OnDelete.fire(obj); err != nil {
		return err
	}
	return c.Client.Delete(ctx, obj, opts...)
}

func (c *faultClient) Status() client.StatusWriter {
	return &faultStatusWriter{StatusWriter: c.Client.Status(), cfg: c.cfg}
}

type faultStatusWriter struct {
	client.StatusWriter
	cfg *FailureConfig
}

func (s *faultStatusWriter) Update(ctx context.Context, obj client.Object, opts ...client.SubResourceUpdateOption) error {
	if err := s.cfg.OnStatusUpdate.fire(obj); err != nil {
		return err
	}
	return s.StatusWriter.Update(ctx, obj, opts...)
}

// FailOnObjectName builds a Hook that rejects operations on the named
// object and lets everything else through.
func FailOnObjectName(name string, err error) Hook {
	return func(obj client.Object) error {
		if obj.GetName() == name {
			return err
		}
		return nil
	}
}

// FailAfterNCalls builds a Hook that lets the first n operations through
// and rejects the rest, for tests that need a partially applied plan.
func FailAfterNCalls(n int, err error) Hook {
	calls := 0
	return func(client.Object) error {
		calls++
		if calls > n {
			return err
		}
		return nil
	}
}

// ErrInjected is the sentinel returned by injected failures.
var ErrInjected = errors.New("injected test error")
