// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// newDefaultLogger builds the logger used when WithLogger is not
// supplied: a real stumpy-backed logiface.Logger writing to io.Discard,
// so every diagnostic call site in this package is exercised even when
// the caller never wires up their own sink.
func newDefaultLogger() *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(io.Discard)),
	)
}
