package audiocapture

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

// portAudioImpl captures from the default input device via PortAudio.
// PortAudio is initialized per session and terminated on stop, mirroring the
// session lifecycle: the library holds the device only while recording.
type portAudioImpl struct {
	stream  *portaudio.Stream
	in      []int16
	done    chan struct{}
	stopped chan struct{}
}

func newPortAudioImpl() captureImpl {
	return &portAudioImpl{}
}

func (p *portAudioImpl) start(cfg Config, callback func(samples []int16)) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	p.in = make([]int16, cfg.FramesPerBuffer*cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), cfg.FramesPerBuffer, p.in)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open default stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start stream: %w", err)
	}

	p.stream = stream
	p.done = make(chan struct{})
	p.stopped = make(chan struct{})
	go p.readLoop(callback)
	return nil
}

func (p *portAudioImpl) readLoop(callback func(samples []int16)) {
	defer close(p.stopped)
	for {
		select {
		case <-p.done:
			return
		default:
		}
		if err := p.stream.Read(); err != nil {
			// transient read failures happen around device sleep; back off
			// rather than spin
			time.Sleep(10 * time.Millisecond)
			continue
		}
		chunk := make([]int16, len(p.in))
		copy(chunk, p.in)
		callback(chunk)
	}
}

func (p *portAudioImpl) stop() error {
	close(p.done)
	<-p.stopped

	err := p.stream.Stop()
	if cerr := p.stream.Close(); err == nil {
		err = cerr
	}
	portaudio.Terminate()
	return err
}
