package buffer

import (
	"fmt"

	"github.com/daiw-audio/memkit/mem"
)

// Audio is a 32-bit float sample buffer, the common audio element type.
type Audio = Buffer[float32]

// Audio64 is a 64-bit float sample buffer.
type Audio64 = Buffer[float64]

// MIDITicks is a buffer of MIDI tick values.
type MIDITicks = Buffer[int32]

// Stereo pairs two same-length sample buffers from one pool.
type Stereo struct {
	Left  *Audio
	Right *Audio
}

// NewStereo allocates a stereo pair of samples-length channels.
func NewStereo(m *mem.Manager, samples int, id mem.PoolID) (*Stereo, error) {
	left, err := New[float32](m, samples, id)
	if err != nil {
		return nil, err
	}
	right, err := New[float32](m, samples, id)
	if err != nil {
		left.Close()
		return nil, err
	}
	return &Stereo{Left: left, Right: right}, nil
}

// Len returns the per-channel sample count.
func (s *Stereo) Len() int { return s.Left.Len() }

// PoolID returns the pool both channels live in.
func (s *Stereo) PoolID() mem.PoolID { return s.Left.PoolID() }

// Close releases both channels.
func (s *Stereo) Close() {
	s.Left.Close()
	s.Right.Close()
}

// MultiChannel composes N same-length sample buffers sharing one pool.
type MultiChannel struct {
	channels []*Audio
	samples  int
	id       mem.PoolID
}

// NewMultiChannel allocates channels buffers of samples elements each.
func NewMultiChannel(m *mem.Manager, channels, samples int, id mem.PoolID) (*MultiChannel, error) {
	if channels < 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrBadCount, channels)
	}
	mc := &MultiChannel{
		channels: make([]*Audio, 0, channels),
		samples:  samples,
		id:       id,
	}
	for i := 0; i < channels; i++ {
		ch, err := New[float32](m, samples, id)
		if err != nil {
			mc.Close()
			return nil, err
		}
		mc.channels = append(mc.channels, ch)
	}
	return mc, nil
}

// Channel returns channel i. The index is the caller's contract, like
// slice indexing.
func (mc *MultiChannel) Channel(i int) *Audio { return mc.channels[i] }

// NumChannels returns the channel count.
func (mc *MultiChannel) NumChannels() int { return len(mc.channels) }

// SamplesPerChannel returns the per-channel length.
func (mc *MultiChannel) SamplesPerChannel() int { return mc.samples }

// PoolID returns the shared pool identifier.
func (mc *MultiChannel) PoolID() mem.PoolID { return mc.id }

// Clear zeroes every channel.
func (mc *MultiChannel) Clear() {
	for _, ch := range mc.channels {
		ch.Clear()
	}
}

// Close releases every channel.
func (mc *MultiChannel) Close() {
	for _, ch := range mc.channels {
		ch.Close()
	}
	mc.channels = nil
}
