// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"syscall"
	"time"

	"gitlab.com/gnss-tools/gnss_sim/internal/bridge"
	"gitlab.com/gnss-tools/gnss_sim/internal/config"
	"gitlab.com/gnss-tools/gnss_sim/internal/nmea"
	"gitlab.com/gnss-tools/gnss_sim/internal/shutdown"
	"gitlab.com/gnss-tools/gnss_sim/internal/simulator"
	"gitlab.com/gnss-tools/gnss_sim/internal/transport"
)

func usage() {
	flag.CommandLine.Usage()
}

func main() {
	defaults := config.Default()

	var confFile string
	flag.StringVar(&confFile, "c", "", "Configuration file to use.")
	var help bool
	flag.BoolVar(&help, "h", false, "Print help and quit.")
	var pipePath string
	flag.StringVar(&pipePath, "pipe", "", "Write sentences to a named pipe (FIFO) at this path.")
	var serialDev string
	flag.StringVar(&serialDev, "serial", "", "Write sentences to this serial device.")
	var baud int
	flag.IntVar(&baud, "baud", defaults.BaudRate, "Baud rate for the serial device.")
	var interval float64
	flag.Float64Var(&interval, "interval", defaults.Interval, "Seconds between sentence batches.")
	var linkPath string
	flag.StringVar(&linkPath, "link", defaults.LinkPath, "Publish the virtual serial port behind a symlink at this path.")
	var logFile string
	flag.StringVar(&logFile, "file", defaults.LogFile, "Replay sentences from this NMEA log instead of generating them.")
	var quiet bool
	flag.BoolVar(&quiet, "quiet", defaults.Quiet, "Do not echo sent batches to the console.")

	flag.Usage = func() {
		fmt.Println("usage: gnss_sim [OPTION...] [GPS_INPUT_PATH GPS_OUTPUT_PATH]")
		fmt.Println()
		fmt.Println("Simulates a GNSS receiver emitting NMEA-0183 over a virtual serial")
		fmt.Println("transport. With two positional paths, two linked pseudo-terminals are")
		fmt.Println("published at those paths and bridged; with no positional arguments a")
		fmt.Println("single virtual serial port, named pipe (--pipe) or real serial device")
		fmt.Println("(--serial) is used.")
		fmt.Println("Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	if help {
		usage()
		return
	}

	if confFile != "" {
		conf, err := config.Parse(confFile)
		if err != nil {
			log.Fatal(err)
		}
		overridden := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { overridden[f.Name] = true })
		if !overridden["interval"] {
			interval = conf.Interval
		}
		if !overridden["baud"] {
			baud = conf.BaudRate
		}
		if !overridden["link"] {
			linkPath = conf.LinkPath
		}
		if !overridden["file"] {
			logFile = conf.LogFile
		}
		if !overridden["quiet"] {
			quiet = conf.Quiet
		}
	}

	if flag.NArg() != 0 && flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}

	linked := flag.NArg() == 2

	// the three explicit transports are mutually exclusive
	modes := 0
	for _, selected := range []bool{linked, pipePath != "", serialDev != ""} {
		if selected {
			modes++
		}
	}
	if modes > 1 {
		usage()
		os.Exit(1)
	}

	if interval <= 0 {
		fmt.Fprintln(os.Stderr, "interval must be positive")
		os.Exit(1)
	}

	flg := shutdown.New()
	shutdown.Notify(flg, os.Interrupt, syscall.SIGTERM)

	var source simulator.Source
	if logFile != "" {
		player, err := simulator.NewLogPlayer(logFile)
		if err != nil {
			log.Fatal(err)
		}
		source = player
	} else {
		source = nmea.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	period := time.Duration(interval * float64(time.Second))
	loop := simulator.New(source, period, flg)

	var err error
	switch {
	case linked:
		err = runLinked(loop, flg, flag.Arg(0), flag.Arg(1), quiet)
	case pipePath != "":
		err = runPipe(loop, pipePath, quiet)
	case serialDev != "":
		err = runSerial(loop, serialDev, baud, quiet)
	default:
		err = runPty(loop, linkPath, quiet)
	}
	if err != nil {
		// make sure an already-spawned signal watcher is harmless
		flg.Signal()
		log.Fatal(err)
	}

	fmt.Println("GNSS simulator exited gracefully.")
}

// runLinked provisions two bridged pseudo-terminals and feeds the
// generated sentences into the replica published at inputPath. A
// consumer reads them back from outputPath, and anything it writes
// there reappears on inputPath.
func runLinked(loop *simulator.Loop, flg *shutdown.Flag, inputPath, outputPath string, quiet bool) error {
	pair, err := transport.NewLinkedPair(inputPath, outputPath)
	if err != nil {
		return err
	}
	defer pair.Cleanup()

	fmt.Printf("Connect your GNSS-consuming application to: %s\n", outputPath)

	br := bridge.Start(pair.In.Master(), pair.Out.Master(), flg)

	w, err := os.OpenFile(pair.InputPath, os.O_WRONLY|syscall.O_NOCTTY, 0)
	if err != nil {
		flg.Signal()
		br.Wait()
		return fmt.Errorf("open %s: %w", pair.InputPath, err)
	}

	if !quiet {
		loop.Destination = pair.InputPath
	}
	loopErr := loop.Run(w)
	w.Close()

	// stop both forwarding directions before releasing the endpoints
	flg.Signal()
	br.Wait()
	pair.Cleanup()

	return loopErr
}

func runPipe(loop *simulator.Loop, path string, quiet bool) error {
	fifo, err := transport.EnsureFifo(path)
	if err != nil {
		return err
	}
	defer fifo.Cleanup()

	fmt.Printf("Connect your GNSS-consuming application to the named pipe: %s\n", path)

	if !quiet {
		loop.Destination = path
	}
	return loop.RunPipe(fifo)
}

func runSerial(loop *simulator.Loop, device string, baud int, quiet bool) error {
	port, err := transport.OpenSerial(device, baud)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("Using serial port: %s\n", device)

	if !quiet {
		loop.Destination = device
	}
	return loop.Run(port)
}

// runPty is the default mode: one pseudo-terminal, its replica path
// printed for the consumer to open, optionally published behind a
// stable symlink.
func runPty(loop *simulator.Loop, linkPath string, quiet bool) error {
	endpoint, err := transport.CreatePtyPair()
	if err != nil {
		return err
	}
	defer endpoint.Close()

	fmt.Printf("Virtual serial port created at: %s\n", endpoint.ReplicaPath())

	target := endpoint.ReplicaPath()
	if linkPath != "" {
		if err := transport.Publish(endpoint.ReplicaPath(), linkPath); err != nil {
			return err
		}
		defer func() {
			if err := transport.RemoveLink(linkPath); err != nil {
				log.Println(err)
			}
		}()
		target = linkPath
	}
	fmt.Printf("Connect your GNSS-consuming application to: %s\n", target)

	if !quiet {
		loop.Destination = target
	}
	return loop.Run(endpoint.Master())
}
