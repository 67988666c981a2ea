//go:build linux

package audio

import (
	"fmt"

	"github.com/jfreymuth/pulse"
)

type pulseContext struct {
	client *pulse.Client
}

func NewContext() (Context, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseContext{client: c}, nil
}

func (p *pulseContext) Devices() ([]DeviceInfo, error) {
	sources, err := p.client.ListSources()
	if err != nil {
		return nil, fmt.Errorf("pulse list sources: %w", err)
	}
	var devices []DeviceInfo
	for _, s := range sources {
		devices = append(devices, DeviceInfo{
			ID:   s.ID(),
			Name: s.Name(),
		})
	}
	return devices, nil
}

func (p *pulseContext) OpenStream(device *DeviceInfo, config Config) (Stream, error) {
	buf := newPullBuffer()

	writer := pulse.Float32Writer(func(samples []float32) (int, error) {
		if len(samples) == 0 {
			return 0, nil
		}
		block := make([]float32, len(samples))
		copy(block, samples)
		buf.push(block)
		return len(samples), nil
	})

	opts := []pulse.RecordOption{
		pulse.RecordMono,
		pulse.RecordSampleRate(config.SampleRate),
		pulse.RecordLatency(0.05),
	}
	if device != nil {
		source, err := p.client.SourceByID(device.ID)
		if err == nil && source != nil {
			opts = append(opts, pulse.RecordSource(source))
		}
	}

	stream, err := p.client.NewRecord(writer, opts...)
	if err != nil {
		return nil, fmt.Errorf("pulse record: %w", err)
	}
	stream.Start()

	return &pulseStream{stream: stream, buf: buf}, nil
}

func (p *pulseContext) Close() {
	p.client.Close()
}

type pulseStream struct {
	stream *pulse.RecordStream
	buf    *pullBuffer
}

func (s *pulseStream) Read(n int) ([]float32, bool, error) {
	return s.buf.read(n)
}

func (s *pulseStream) Close() error {
	s.stream.Stop()
	s.stream.Close()
	s.buf.close()
	return nil
}
