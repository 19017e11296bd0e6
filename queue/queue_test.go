// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/shell"
)

func Test_queue01(tst *testing.T) {

	chk.PrintTitle("queue01")

	q := New()
	id1 := q.Push(5.0, shell.DomainId(1))
	q.Push(1.0, shell.DomainId(2))
	q.Push(1.0, shell.DomainId(3)) // tie with id2; must pop after it (FIFO)

	_, t, d := q.Pop()
	chk.Scalar(tst, "first time", 1e-15, t, 1.0)
	if d != shell.DomainId(2) {
		tst.Fatalf("FIFO tie-break violated: expected domain 2 first, got %d", d)
	}

	_, t2, d2 := q.Pop()
	chk.Scalar(tst, "second time", 1e-15, t2, 1.0)
	if d2 != shell.DomainId(3) {
		tst.Fatalf("expected domain 3 second, got %d", d2)
	}

	q.Update(id1, 0.5)
	_, t3, d3 := q.Pop()
	chk.Scalar(tst, "updated time", 1e-15, t3, 0.5)
	if d3 != shell.DomainId(1) {
		tst.Fatalf("expected domain 1 after update, got %d", d3)
	}
	chk.Int(tst, "len after all pops", q.Len(), 0)
}

func Test_queue02(tst *testing.T) {

	chk.PrintTitle("queue02 remove")

	q := New()
	id1 := q.Push(1.0, shell.DomainId(1))
	q.Push(2.0, shell.DomainId(2))
	q.Remove(id1)
	_, _, d, ok := q.Peek()
	if !ok || d != shell.DomainId(2) {
		tst.Fatalf("expected domain 2 to remain after removing domain 1's event")
	}
}
