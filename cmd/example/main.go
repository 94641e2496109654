package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/masterakos/node-hid/pkg/device"
	"github.com/masterakos/node-hid/pkg/options"
)

func main() {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))

	hid, err := device.New(options.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = hid.Close()
	}()

	infos, err := hid.Enumerate(device.VendorIDAny, device.ProductIDAny)
	if err != nil {
		panic(err)
	}

	for _, info := range infos {
		fmt.Printf("%04x:%04x %s %s (usage %04x:%04x) %s\n",
			info.VendorID,
			info.ProductID,
			info.MfrStr,
			info.ProductStr,
			info.UsagePage,
			info.Usage,
			info.Path,
		)
	}

	if len(os.Args) != 3 {
		return
	}

	vid, err := strconv.ParseUint(os.Args[1], 16, 16)
	if err != nil {
		panic(err)
	}
	pid, err := strconv.ParseUint(os.Args[2], 16, 16)
	if err != nil {
		panic(err)
	}

	dev, err := hid.Open(uint16(vid), uint16(pid), "")
	if err != nil {
		panic(err)
	}

	// One asynchronous read; the completion channel delivers exactly
	// one result.
	report, err := (<-dev.ReadAsync()).Get()
	if err != nil {
		panic(err)
	}
	fmt.Printf("input report (%d bytes):\n%s", len(report), hex.Dump(report))

	if err := dev.Close(); err != nil {
		panic(err)
	}
}
