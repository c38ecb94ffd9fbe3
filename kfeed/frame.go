package kfeed

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeFrame encodes a float64 vector as big-endian IEEE 754 bytes, eight
// per column.
func EncodeFrame(frame []float64) []byte {
	res := make([]byte, 8*len(frame))
	for i, v := range frame {
		binary.BigEndian.PutUint64(res[8*i:], math.Float64bits(v))
	}
	return res
}

// DecodeFrame decodes a big-endian float64 vector. The payload length must be
// a multiple of eight.
func DecodeFrame(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("frame payload length %d is not a multiple of 8", len(data))
	}
	frame := make([]float64, len(data)/8)
	for i := range frame {
		frame[i] = math.Float64frombits(binary.BigEndian.Uint64(data[8*i:]))
	}
	return frame, nil
}
