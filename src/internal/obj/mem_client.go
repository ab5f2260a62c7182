package obj

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/shalerr"
)

// NewMem returns a Client that stores data in process memory.  Intended for
// tests.
func NewMem() Client {
	return newUniformClient(&memClient{
		objects: make(map[string][]byte),
	})
}

type memClient struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func (c *memClient) Put(ctx context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.EnsureStack(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[name] = data
	return nil
}

func (c *memClient) Get(ctx context.Context, name string, w io.Writer) error {
	c.mu.RLock()
	data, exists := c.objects[name]
	c.mu.RUnlock()
	if !exists {
		return shalerr.NewNotExist(c.BucketURL().String(), name)
	}
	_, err := io.Copy(w, bytes.NewReader(data))
	return errors.EnsureStack(err)
}

func (c *memClient) Delete(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objects, name)
	return nil
}

func (c *memClient) Exists(ctx context.Context, name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.objects[name]
	return exists, nil
}

func (c *memClient) Walk(ctx context.Context, prefix string, cb func(string) error) error {
	c.mu.RLock()
	var names []string
	for name := range c.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	c.mu.RUnlock()
	sort.Strings(names)
	for _, name := range names {
		if err := cb(name); err != nil {
			return err
		}
	}
	return nil
}

func (c *memClient) BucketURL() ObjectStoreURL {
	return ObjectStoreURL{Scheme: Mem, Bucket: "mem"}
}
