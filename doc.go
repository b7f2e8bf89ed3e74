// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package coro is a single-threaded cooperative concurrency runtime: a lazy,
// pull-driven [Generator], a lazy one-shot [Task] composable via Then,
// Catching and Finally, and an [EventLoop] that schedules Tasks from one
// goroutine.
//
// There are no goroutines inside a Task or Generator body, and no channels.
// A computation is built as a chain of defunctionalized frames (package
// internal/contframe) and driven one suspension at a time by whichever party
// owns it — [Task.Wait], [EventLoop.Run], or another Task awaiting it. When a
// Task awaits another Task, control transfers directly to the awaited task's
// frame without growing the caller's Go stack; when the awaited task's final
// frame completes, control transfers back to its waiter the same way. This
// symmetric transfer is what lets deeply chained Then/await pipelines run in
// constant stack depth — see [Frame].
//
// Generator and Task share the same effect machinery, narrowed to two
// operation families: a yield (Generator bodies built with [GenerateWith])
// and an await (Task bodies built with [Await]). [Fail] closes out a third,
// degenerate family both use to short-circuit with a captured error.
//
// [EventLoop] is the external driver for anything that cannot complete
// synchronously: [SleepFor], [SleepUntil] and [SleepOnLoop] register their
// wake time with the loop's delay queue
// and park the Task; ordinary ready work sits in a FIFO queue. Run drains both until
// both are empty, ready work first.
//
// # Generator
//
// Construct with [FromSlice], [FromRange] or [GenerateWith]; consume with
// [Generator.MoveNext]/[Generator.Current] (the bufio.Scanner-style pair),
// [Generator.Next], or the terminal [Generator.ForEach]/[Fold]/[Generator.Reduce].
// [Map], [Filter], [Take], [TakeWhile] and [Scan] compose lazily — nothing
// upstream runs until a terminal consumer pulls.
//
// # Task
//
// Construct with [NewTask] or [Just]; run with [Task.Wait] or by submitting
// to an [EventLoop]. [Then] sequences a continuation on success and
// propagates failure unchanged; [Task.Catching] observes a failure without
// reviving the value; [Task.Finally] always runs its cleanup and re-raises
// any captured error afterward.
package coro
