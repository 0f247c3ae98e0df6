// This file is part of turbopascal - https://github.com/lkesteloot/turbopascal
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

// Command tp3 compiles and runs a single Turbo-Pascal-3 source file:
// read the file named on the command line, compile it, then run it to
// completion (or until -timeout elapses) printing WriteLn output to
// stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/lkesteloot/turbopascal/pmachine"
	"github.com/lkesteloot/turbopascal/tp3"
)

func atExit(err error, debug bool) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	os.Exit(1)
}

func main() {
	var err error

	debug := flag.Bool("debug", false, "print a stack trace alongside any error")
	trace := flag.Bool("trace", false, "print one disassembled instruction line per step")
	stats := flag.Bool("stats", false, "print instruction count and elapsed wall time on exit")
	dataSize := flag.Int("size", 0, "data store size in words (0 = default, 65536)")
	budget := flag.Int("budget", 0, "instructions executed per scheduling batch (0 = default, 100000)")
	timeout := flag.Duration("timeout", 0, "abort the run after this long (0 = no timeout)")
	dump := flag.String("dump", "", "write a snapshot of the stack/heap words to this file after the run")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tp3 [flags] source.pas")
		os.Exit(2)
	}

	defer func() { atExit(err, *debug) }()

	srcBytes, readErr := os.ReadFile(flag.Arg(0))
	if readErr != nil {
		err = errors.Wrap(readErr, "tp3: reading source file")
		return
	}

	bc, compileErr := tp3.Compile(string(srcBytes))
	if compileErr != nil {
		err = compileErr
		return
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var opts []pmachine.Option
	opts = append(opts, pmachine.Output(func(s string, newline bool) {
		out.WriteString(s)
		if newline {
			out.WriteByte('\n')
		}
	}))
	if *dataSize > 0 {
		opts = append(opts, pmachine.DataSize(*dataSize))
	}
	if *budget > 0 {
		opts = append(opts, pmachine.BatchSize(*budget))
	}
	if *trace {
		opts = append(opts, pmachine.Debug(func(addr int, line string) {
			fmt.Fprintf(os.Stderr, "%6d  %s\n", addr, line)
		}))
	}

	var elapsed time.Duration
	opts = append(opts, pmachine.Finish(func(elapsedNanos int64, runErr error) {
		elapsed = time.Duration(elapsedNanos)
	}))

	m, newErr := tp3.NewMachine(bc, opts...)
	if newErr != nil {
		err = newErr
		return
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	runErr := m.RunContext(ctx)
	out.Flush()
	if runErr != nil {
		err = runErr
		return
	}

	if *dump != "" {
		dumpFile, createErr := os.Create(*dump)
		if createErr != nil {
			err = errors.Wrap(createErr, "tp3: creating dump file")
			return
		}
		dumpErr := m.Dump(dumpFile)
		dumpFile.Close()
		if dumpErr != nil {
			err = dumpErr
			return
		}
	}

	if *stats {
		fmt.Fprintf(os.Stderr, "Executed %d instructions in %v.\n", m.InstructionCount(), elapsed)
	}
}
