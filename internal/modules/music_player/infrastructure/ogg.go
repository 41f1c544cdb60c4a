package infrastructure

import (
	"bufio"
	"bytes"
	"io"
)

// oggOpusReader extracts raw Opus packets from an Ogg container stream,
// typically ffmpeg's stdout. OpusHead and OpusTags metadata packets are
// skipped so every returned packet is playable audio.
type oggOpusReader struct {
	reader    *bufio.Reader
	header    []byte
	segBuf    []byte
	packetBuf bytes.Buffer
	queue     [][]byte
}

func newOggOpusReader(r io.Reader) *oggOpusReader {
	return &oggOpusReader{
		reader: bufio.NewReaderSize(r, 16384),
		header: make([]byte, 27),
		segBuf: make([]byte, 255),
	}
}

// NextPacket returns the next Opus packet, or io.EOF when the stream ends.
func (o *oggOpusReader) NextPacket() ([]byte, error) {
	if len(o.queue) > 0 {
		packet := o.queue[0]
		o.queue = o.queue[1:]
		return packet, nil
	}

	for {
		sig, err := o.reader.Peek(4)
		if err != nil {
			return nil, err
		}

		// Resync on anything that is not an Ogg page boundary.
		if string(sig) != "OggS" {
			_, _ = o.reader.Discard(1)
			continue
		}

		if _, err := io.ReadFull(o.reader, o.header); err != nil {
			return nil, err
		}

		numSegs := int(o.header[26])
		segTable := o.segBuf[:numSegs]
		if _, err := io.ReadFull(o.reader, segTable); err != nil {
			return nil, err
		}

		for _, segLen := range segTable {
			l := int(segLen)
			if _, err := io.CopyN(&o.packetBuf, o.reader, int64(l)); err != nil {
				return nil, err
			}

			// A segment shorter than 255 bytes terminates the packet.
			if l < 255 {
				payload := o.packetBuf.Bytes()
				packet := make([]byte, len(payload))
				copy(packet, payload)
				o.packetBuf.Reset()

				if len(packet) > 8 && (string(packet[:8]) == "OpusHead" || string(packet[:8]) == "OpusTags") {
					continue
				}

				o.queue = append(o.queue, packet)
			}
		}

		if len(o.queue) > 0 {
			packet := o.queue[0]
			o.queue = o.queue[1:]
			return packet, nil
		}
	}
}
