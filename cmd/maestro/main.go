// Command maestro listens to a capture device, prints the pitches it hears
// in real time, and reports the musical key of everything played when the
// program is interrupted.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unsafe"

	"github.com/fatih/color"
	"github.com/gen2brain/malgo"
	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"

	"github.com/monolithaudio/maestro/detect"
	"github.com/monolithaudio/maestro/logging"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal(err, "maestro exited")
	}
}

func run() error {
	_ = godotenv.Load()

	mode := flag.String("mode", envOr("MAESTRO_MODE", "mono"), "detection mode: mono or poly")
	rate := flag.Int("rate", envInt("MAESTRO_SAMPLE_RATE", 44100), "capture sample rate in Hz")
	device := flag.String("device", os.Getenv("MAESTRO_DEVICE"), "capture device name substring (default device if empty)")
	magnitude := flag.Float64("magnitude", envFloat("MAESTRO_MAGNITUDE_THRESHOLD", 0.02), "minimum peak magnitude, 0-1")
	gate := flag.Float64("gate", envFloat("MAESTRO_NOISE_GATE", 0.001), "RMS silence threshold, 0-1")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logging.SetLevel(logging.DebugLevel)
	}

	detector, err := newDetector(*mode)
	if err != nil {
		return err
	}
	detector.SetMagnitudeThreshold(*magnitude)
	detector.SetNoiseGateThreshold(*gate)

	session := detect.NewSession()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return xerrors.New("init audio context", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(*rate)
	deviceConfig.Alsa.NoMMap = 1

	if *device != "" {
		if err := selectDevice(ctx, &deviceConfig, *device); err != nil {
			return err
		}
	}

	onRecvFrames := func(_, input []byte, frameCount uint32) {
		if len(input) == 0 {
			return
		}
		samples := unsafe.Slice((*float32)(unsafe.Pointer(&input[0])), int(frameCount))
		detector.ProcessBlock(samples)
		session.Observe(detector.DetectedNotes())
	}

	capture, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecvFrames})
	if err != nil {
		return xerrors.New("init capture device", err)
	}
	defer capture.Uninit()

	detector.Prepare(float64(capture.SampleRate()), 512)

	session.Start()
	if err := capture.Start(); err != nil {
		return xerrors.New("start capture", err)
	}

	logging.Info("listening", logging.Fields{
		"mode": *mode,
		"rate": capture.SampleRate(),
	})
	fmt.Println("Listening... press Ctrl-C to stop and analyze the key.")

	printLoop(detector)

	_ = capture.Stop()

	notes, key := session.Stop()
	printSummary(notes, key)
	return nil
}

func newDetector(mode string) (detect.Detector, error) {
	switch mode {
	case "mono":
		return detect.NewMonophonic(detect.DefaultMonophonicConfig())
	case "poly":
		return detect.NewPolyphonic(detect.DefaultPolyphonicConfig())
	default:
		return nil, xerrors.New("unknown mode: " + mode + " (want mono or poly)")
	}
}

// selectDevice points the config at the first capture device whose name
// contains the given substring, case-insensitively.
func selectDevice(ctx *malgo.AllocatedContext, cfg *malgo.DeviceConfig, name string) error {
	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return xerrors.New("list capture devices", err)
	}

	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name()), strings.ToLower(name)) {
			cfg.Capture.DeviceID = info.ID.Pointer()
			logging.Info("selected capture device", logging.Fields{"device": info.Name()})
			return nil
		}
	}
	return xerrors.New("no capture device matches " + strconv.Quote(name))
}

// printLoop redraws the detected-note line until the process is signaled.
func printLoop(detector detect.Detector) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	noteColor := color.New(color.FgGreen, color.Bold)
	var lastLine string

	for {
		select {
		case <-stop:
			fmt.Println()
			return
		case <-ticker.C:
			line := "  (silence)"
			if notes := detector.DetectedNotes(); len(notes) > 0 {
				parts := make([]string, len(notes))
				for i, note := range notes {
					parts[i] = fmt.Sprintf("%s %.1fHz", noteColor.Sprint(note.Name), note.Frequency)
				}
				line = "  " + strings.Join(parts, "  ")
			}
			if line != lastLine {
				fmt.Printf("\r\033[K%s", line)
				lastLine = line
			}
		}
	}
}

func printSummary(notes []string, key string) {
	if len(notes) == 0 {
		fmt.Println(color.YellowString(key))
		return
	}

	fmt.Printf("Recorded %d notes: %s\n", len(notes), strings.Join(notes, " "))
	fmt.Printf("Estimated key: %s\n", color.New(color.FgCyan, color.Bold).Sprint(key))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
