/*
NAME
  pool.go

DESCRIPTION
  pool.go implements ObjectPool, an unbounded free list of reusable
  decoded-frame containers for the live player, avoiding per-frame
  allocation at playback rate (spec.md §4.7).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pool implements a bounded-ownership free list of reusable
// objects. Unlike github.com/ausocean/utils/pool (a byte ring buffer built
// for streaming encoded media between a producer and a sender), this pool
// holds whole decoded-frame containers: an object is owned exclusively by
// whoever currently holds it, either the borrower or the pool itself
// (spec.md §9 "Object pool").
package pool

import "sync"

// ObjectPool is an unbounded free list of *T, safe for concurrent use.
// The zero value is usable: newFn is required only the first time Borrow
// finds the list empty.
type ObjectPool[T any] struct {
	mu    sync.Mutex
	free  []*T
	newFn func() *T
}

// New returns an ObjectPool whose Borrow allocates via newFn when the
// free list is empty.
func New[T any](newFn func() *T) *ObjectPool[T] {
	return &ObjectPool[T]{newFn: newFn}
}

// Borrow removes an object from the free list, or allocates one via newFn
// if the list is empty.
func (p *ObjectPool[T]) Borrow() *T {
	p.mu.Lock()
	n := len(p.free)
	if n == 0 {
		p.mu.Unlock()
		return p.newFn()
	}
	obj := p.free[n-1]
	p.free = p.free[:n-1]
	p.mu.Unlock()
	return obj
}

// GiveBack returns obj to the free list. Callers must not use obj after
// calling GiveBack: ownership passes to the pool.
func (p *ObjectPool[T]) GiveBack(obj *T) {
	p.mu.Lock()
	p.free = append(p.free, obj)
	p.mu.Unlock()
}

// Len reports the number of objects currently idle in the free list.
func (p *ObjectPool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
