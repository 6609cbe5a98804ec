// Copyright 2025 The eduOS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jbreitbart/eduOS-rs/pkg/arch"
	"github.com/jbreitbart/eduOS-rs/pkg/log"
	"github.com/jbreitbart/eduOS-rs/pkg/ring0"
	"github.com/jbreitbart/eduOS-rs/pkg/sched"
)

// Demo implements subcommands.Command for the "demo" command.
type Demo struct {
	tasks  int
	yields int
}

// Name implements subcommands.Command.Name.
func (*Demo) Name() string {
	return "demo"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Demo) Synopsis() string {
	return "run a ring of cooperative tasks through the switching core"
}

// Usage implements subcommands.Command.Usage.
func (*Demo) Usage() string {
	return `demo [flags]`
}

// SetFlags implements subcommands.Command.SetFlags.
func (d *Demo) SetFlags(f *flag.FlagSet) {
	f.IntVar(&d.tasks, "tasks", 4, "number of tasks to spawn")
	f.IntVar(&d.yields, "yields", 3, "number of times each task yields before exiting")
}

// Execute implements subcommands.Command.Execute.
func (d *Demo) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if d.tasks < 1 || d.yields < 0 {
		fmt.Println("demo requires at least one task and a non-negative yield count")
		return subcommands.ExitUsageError
	}

	kernel := ring0.New(ring0.KernelOpts{})
	cpu := kernel.NewCPU(arch.NewMemory(), nil)
	s := sched.NewScheduler(cpu)

	for i := 0; i < d.tasks; i++ {
		i := i
		s.Spawn(func() {
			for n := 0; n < d.yields; n++ {
				fmt.Printf("task %d: hello from round %d (tid %d)\n", i, n, s.CurrentTaskID())
				s.Reschedule()
			}
		}, sched.NormalPriority)
	}

	// The boot task doubles as the idle loop: keep yielding until every
	// spawned task has exited.
	for s.NumberOfTasks() > 0 {
		s.Reschedule()
	}

	log.Infof("demo finished, %d tasks ran to completion", d.tasks)
	return subcommands.ExitSuccess
}
