// Command midiports is a small diagnostic for checking what the
// recorder will see: list the current input ports, or watch the
// enumeration for hot-plug changes.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "watch":
		watchPorts()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("midiports - MIDI port diagnostics")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list   - List all MIDI input ports")
	fmt.Println("  watch  - Watch for devices connecting and disconnecting")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- midi.GetInPorts()
	}()

	select {
	case ins := <-ch:
		if len(ins) == 0 {
			fmt.Println("  (none - the recorder would wait for a device)")
			return
		}
		for i, p := range ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\nThe recorder picks port 0 unless portName is set in its config.")
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI backend is hung.")
	}
}

func watchPorts() {
	fmt.Println("Watching for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect your keyboard to test. Ctrl+C to exit.")

	last := ""

	for {
		ins := midi.GetInPorts()

		var names []string
		for _, p := range ins {
			names = append(names, p.String())
		}

		current := strings.Join(names, ",")
		if current != last {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", names)
			last = current
		}

		time.Sleep(2 * time.Second)
	}
}
