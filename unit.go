// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

// Unit is the result type of a Task that produces no meaningful value, the
// Go analogue of Task<void>. Catching and Finally always return Task[Unit].
type Unit struct{}
