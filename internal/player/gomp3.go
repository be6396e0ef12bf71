package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// mp3Stream adapts a go-mp3 decoder to beep.StreamSeekCloser.
// go-mp3 always emits interleaved 16-bit stereo.
type mp3Stream struct {
	dec    *mp3.Decoder
	closer io.Closer
	buf    []byte
	err    error
}

func decodeGoMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if dec.SampleRate() == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(dec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Stream{dec: dec, closer: rc, buf: make([]byte, 8192)}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	want := len(samples) * 4
	if len(s.buf) < want {
		s.buf = make([]byte, want)
	}

	got, err := io.ReadFull(s.dec, s.buf[:want])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}

	n := got / 4
	if n == 0 {
		return 0, false
	}
	for i := range n {
		frame := s.buf[i*4:]
		samples[i][0] = float64(int16(binary.LittleEndian.Uint16(frame))) / 32768.0     //nolint:gosec // audio samples
		samples[i][1] = float64(int16(binary.LittleEndian.Uint16(frame[2:]))) / 32768.0 //nolint:gosec // audio samples
	}
	return n, true
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return max(int(s.dec.SampleCount()), 0)
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

// Seek clamps p into the stream and clears any sticky read error so a loop can restart.
func (s *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error {
	return s.closer.Close()
}
