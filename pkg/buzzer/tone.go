// Package buzzer synthesizes the overdue alert tone and plays it through a local
// audio player. Playback never blocks the caller and never reports failure.
package buzzer

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// Tone describes a square wave whose gain ramps exponentially from StartGain to EndGain.
type Tone struct {
	Frequency  float64
	Length     time.Duration
	StartGain  float64
	EndGain    float64
	SampleRate int
}

// Alarm is the overdue buzzer: 800 Hz square wave fading from 0.3 over half a second.
var Alarm = Tone{
	Frequency:  800,
	Length:     500 * time.Millisecond,
	StartGain:  0.3,
	EndGain:    0.01,
	SampleRate: 44100,
}

// Gain returns the envelope value at offset t into the tone.
func (t Tone) Gain(at time.Duration) float64 {
	if at <= 0 {
		return t.StartGain
	}
	if at >= t.Length {
		return t.EndGain
	}
	frac := float64(at) / float64(t.Length)
	return t.StartGain * math.Pow(t.EndGain/t.StartGain, frac)
}

// Samples renders the tone as signed 16-bit mono PCM.
func (t Tone) Samples() []int16 {
	n := int(float64(t.SampleRate) * t.Length.Seconds())
	out := make([]int16, n)
	for i := range out {
		at := time.Duration(float64(i) / float64(t.SampleRate) * float64(time.Second))
		phase := math.Mod(t.Frequency*float64(i)/float64(t.SampleRate), 1)
		v := 1.0
		if phase >= 0.5 {
			v = -1.0
		}
		out[i] = int16(v * t.Gain(at) * math.MaxInt16)
	}
	return out
}

// WAV encodes the tone as a canonical 44-byte-header RIFF file.
func (t Tone) WAV() []byte {
	samples := t.Samples()
	dataLen := uint32(len(samples) * 2)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(t.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(t.SampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}
