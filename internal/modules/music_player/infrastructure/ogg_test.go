package infrastructure

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// buildOggPage assembles a minimal Ogg page carrying the given packets,
// each terminated by a short segment.
func buildOggPage(packets ...[]byte) []byte {
	var segTable []byte
	var payload []byte
	for _, packet := range packets {
		remaining := len(packet)
		for remaining >= 255 {
			segTable = append(segTable, 255)
			remaining -= 255
		}
		segTable = append(segTable, byte(remaining))
		payload = append(payload, packet...)
	}

	header := make([]byte, 27)
	copy(header, "OggS")
	header[26] = byte(len(segTable))

	page := append(header, segTable...)
	return append(page, payload...)
}

func TestOggOpusReader_SkipsMetadataPackets(t *testing.T) {
	head := append([]byte("OpusHead"), make([]byte, 11)...)
	tags := append([]byte("OpusTags"), make([]byte, 8)...)
	audio1 := []byte{0xF8, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}
	audio2 := []byte{0xF8, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10, 0x11, 0x12}

	var stream bytes.Buffer
	stream.Write(buildOggPage(head))
	stream.Write(buildOggPage(tags))
	stream.Write(buildOggPage(audio1, audio2))

	reader := newOggOpusReader(&stream)

	packet, err := reader.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v", err)
	}
	if !bytes.Equal(packet, audio1) {
		t.Errorf("first packet = %x, want %x", packet, audio1)
	}

	packet, err = reader.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v", err)
	}
	if !bytes.Equal(packet, audio2) {
		t.Errorf("second packet = %x, want %x", packet, audio2)
	}

	if _, err := reader.NextPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("NextPacket() at end error = %v, want EOF", err)
	}
}

func TestOggOpusReader_ReassemblesLongPackets(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = byte(i % 251)
	}

	var stream bytes.Buffer
	stream.Write(buildOggPage(long))

	reader := newOggOpusReader(&stream)
	packet, err := reader.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v", err)
	}
	if !bytes.Equal(packet, long) {
		t.Errorf("reassembled packet length = %d, want %d", len(packet), len(long))
	}
}

func TestOggOpusReader_ResyncsOnGarbage(t *testing.T) {
	audio := []byte{0xF8, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}

	var stream bytes.Buffer
	stream.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	stream.Write(buildOggPage(audio))

	reader := newOggOpusReader(&stream)
	packet, err := reader.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v", err)
	}
	if !bytes.Equal(packet, audio) {
		t.Errorf("packet = %x, want %x", packet, audio)
	}
}
