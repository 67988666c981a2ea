package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dicto/audio"
	"dicto/clipboard"
	"dicto/config"
	"dicto/encoder"
	"dicto/hotkey"
	"dicto/journal"
	"dicto/log"
	"dicto/paste"
	"dicto/provider"
	"dicto/status"
	"dicto/vocab"
)

var version = "dev"

func main() {
	versionFlag := flag.Bool("version", false, "Print version and exit")
	devicesFlag := flag.Bool("devices", false, "List audio input devices and exit")
	deviceFlag := flag.String("device", "", "Use named microphone device (default: system default)")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("dicto %s\n", version)
		return
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err == nil {
		log.SetDir(logPath)
		if err := log.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
		}
	}
	defer log.Close()

	cfg := config.Load()

	actx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer actx.Close()

	if *devicesFlag {
		listDevices(actx)
		return
	}

	prov, err := provider.New(cfg.Provider, provider.Settings{
		Token:     cfg.Replicate.Token,
		Model:     cfg.Replicate.Model,
		Task:      cfg.Replicate.Task,
		Language:  cfg.Replicate.Language,
		Timestamp: cfg.Replicate.Timestamp,
		BatchSize: cfg.Replicate.BatchSize,
		Diarize:   cfg.Replicate.Diarize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize transcription provider: %v\n", err)
		os.Exit(1)
	}
	defer prov.Cleanup()

	enc, err := encoder.New(cfg.AudioFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating temp directory: %v\n", err)
		os.Exit(1)
	}
	if err := journal.EnsureFile(cfg.RecordingsFile); err != nil {
		log.Warnf("could not initialize recordings file: %v", err)
	}

	selected := selectDevice(actx, *deviceFlag)

	hub := status.NewHub()
	registerObservers(hub, cfg)
	defer hub.Shutdown()

	if err := paste.Init(); err != nil {
		log.Warnf("paste init failed, text will only reach the clipboard: %v", err)
	}

	hk := hotkey.NewSystem()
	events, err := hk.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error installing keyboard hook: %v\n", err)
		os.Exit(1)
	}
	defer hk.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		hk.Stop()
	}()

	orc := newOrchestrator(cfg, collaborators{
		hub: hub,
		openStream: func() (audio.Stream, error) {
			return actx.OpenStream(selected, audio.Config{
				SampleRate: cfg.SampleRate,
				Channels:   encoder.Channels,
			})
		},
		provider: prov,
		enc:      enc,
		table:    vocab.New(cfg.Vocabulary),
		deliver:  deliver,
	})

	log.SessionStart(prov.Name(), cfg.AudioFormat, cfg.SampleRate)
	log.Infof("ready, hold %s+%s to record", cfg.Modifiers[0], cfg.Modifiers[1])
	orc.run(events)
}

// deliver copies the text and fires the paste chord. The short sleep gives
// the clipboard owner time to take the selection before the paste lands.
func deliver(text string) error {
	if err := clipboard.Copy(text); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return paste.Send()
}

func listDevices(actx audio.Context) {
	devices, err := actx.Devices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying audio devices: %v\n", err)
		os.Exit(1)
	}
	if len(devices) == 0 {
		fmt.Println("No audio input devices found.")
		return
	}
	fmt.Println("Available audio input devices:")
	for i, d := range devices {
		fmt.Printf("  %d. %s\n", i+1, d.Name)
	}
}

// selectDevice resolves -device by name; an unknown name falls back to the
// system default with a warning rather than failing startup.
func selectDevice(actx audio.Context, name string) *audio.DeviceInfo {
	if name == "" {
		return nil
	}
	devices, err := actx.Devices()
	if err != nil {
		log.Warnf("device enumeration failed, using default: %v", err)
		return nil
	}
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i]
		}
	}
	log.Warnf("device %q not found, using default", name)
	return nil
}

func registerObservers(hub *status.Hub, cfg config.Config) {
	for _, name := range cfg.StatusPlugins {
		switch name {
		case "console":
			hub.Register(status.NewConsole(os.Stdout))
		case "i3status":
			bar, err := status.NewI3Bar(cfg.StatusFile)
			if err != nil {
				log.Warnf("failed to initialize i3 status plugin: %v", err)
				continue
			}
			hub.Register(bar)
			log.Infof("i3 status plugin enabled (status file: %s)", cfg.StatusFile)
		default:
			log.Warnf("unknown status plugin %q", name)
		}
	}
}
