package relay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"testing"
)

// fakeSource отдает frames кадров и затем отказывает
type fakeSource struct {
	frames   int
	consumed int
	decoded  int
	closed   bool
}

func (s *fakeSource) Grab() bool {
	if s.consumed >= s.frames {
		return false
	}
	s.consumed++
	return true
}

func (s *fakeSource) ReadJPEG() ([]byte, bool) {
	if s.consumed >= s.frames {
		return nil, false
	}
	s.consumed++
	s.decoded++
	return []byte(fmt.Sprintf("jpeg-frame-%d", s.consumed)), true
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func TestStreamEmitsEveryNthFrame(t *testing.T) {
	cases := []struct {
		frames   int
		interval int
		want     int64
	}{
		{frames: 25, interval: 10, want: 2},
		{frames: 100, interval: 10, want: 10},
		{frames: 9, interval: 10, want: 0},
		{frames: 10, interval: 10, want: 1},
		{frames: 7, interval: 3, want: 2},
	}

	for _, tc := range cases {
		src := &fakeSource{frames: tc.frames}
		var buf bytes.Buffer

		emitted := New(src, tc.interval).Stream(&buf)
		if emitted != tc.want {
			t.Errorf("frames=%d interval=%d: emitted %d, want %d",
				tc.frames, tc.interval, emitted, tc.want)
		}
	}
}

func TestStreamIntervalOneEmitsEveryFrame(t *testing.T) {
	src := &fakeSource{frames: 17}
	var buf bytes.Buffer

	emitted := New(src, 1).Stream(&buf)
	if emitted != 17 {
		t.Fatalf("emitted %d frames, want 17", emitted)
	}
	if src.decoded != 17 {
		t.Fatalf("decoded %d frames, want 17", src.decoded)
	}
}

func TestSkippedFramesAreNotDecoded(t *testing.T) {
	src := &fakeSource{frames: 30}
	var buf bytes.Buffer

	New(src, 10).Stream(&buf)

	if src.decoded != 3 {
		t.Fatalf("decoded %d frames, want 3", src.decoded)
	}
	if src.consumed != 30 {
		t.Fatalf("consumed %d frames, want 30", src.consumed)
	}
}

func TestStreamPartFormat(t *testing.T) {
	src := &fakeSource{frames: 6}
	var buf bytes.Buffer

	emitted := New(src, 3).Stream(&buf)
	if emitted != 2 {
		t.Fatalf("emitted %d frames, want 2", emitted)
	}

	// Живой поток бесконечен и закрывающего разделителя не имеет,
	// дописываем его, чтобы распарсить стандартным ридером
	buf.WriteString("--" + Boundary + "--\r\n")

	reader := multipart.NewReader(&buf, Boundary)
	want := []string{"jpeg-frame-3", "jpeg-frame-6"}
	for i, wantBody := range want {
		part, err := reader.NextPart()
		if err != nil {
			t.Fatalf("part %d: %v", i, err)
		}
		if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("part %d: Content-Type = %q, want image/jpeg", i, ct)
		}
		body, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("part %d: read body: %v", i, err)
		}
		if string(body) != wantBody {
			t.Errorf("part %d: body = %q, want %q", i, body, wantBody)
		}
	}
}

func TestStreamRawChunkLayout(t *testing.T) {
	src := &fakeSource{frames: 1}
	var buf bytes.Buffer

	New(src, 1).Stream(&buf)

	want := "--frame\r\nContent-Type: image/jpeg\r\n\r\njpeg-frame-1\r\n"
	if buf.String() != want {
		t.Fatalf("chunk = %q, want %q", buf.String(), want)
	}
}

// failWriter отказывает после заданного числа успешных записей частей
type failWriter struct {
	writes int
	limit  int
}

func (w *failWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.limit {
		return 0, errors.New("consumer gone")
	}
	return len(p), nil
}

func TestStreamStopsWhenConsumerDisconnects(t *testing.T) {
	src := &fakeSource{frames: 1000}

	// Первая часть проходит (3 записи), дальше потребитель отваливается
	w := &failWriter{limit: 3}
	emitted := New(src, 10).Stream(w)

	if emitted != 1 {
		t.Fatalf("emitted %d frames, want 1", emitted)
	}
	if src.consumed >= 1000 {
		t.Fatal("relay kept draining the source after consumer disconnect")
	}
}

func TestNextTerminatesOnSourceFailure(t *testing.T) {
	src := &fakeSource{frames: 0}
	r := New(src, 10)

	if _, ok := r.Next(); ok {
		t.Fatal("Next returned a frame from a dead source")
	}
}

func TestConcurrentRelaysAreIndependent(t *testing.T) {
	srcA := &fakeSource{frames: 40}
	srcB := &fakeSource{frames: 40}

	relayA := New(srcA, 10)
	relayB := New(srcB, 4)

	// Чередуем зрителей: каденция каждого не должна зависеть от соседа
	frameA, okA := relayA.Next()
	frameB1, okB1 := relayB.Next()
	frameB2, okB2 := relayB.Next()

	if !okA || !okB1 || !okB2 {
		t.Fatal("expected frames from both relays")
	}
	if got := string(frameA); got != "jpeg-frame-10" {
		t.Errorf("relay A first frame = %q, want jpeg-frame-10", got)
	}
	if got := string(frameB1); got != "jpeg-frame-4" {
		t.Errorf("relay B first frame = %q, want jpeg-frame-4", got)
	}
	if got := string(frameB2); got != "jpeg-frame-8" {
		t.Errorf("relay B second frame = %q, want jpeg-frame-8", got)
	}
	if relayA.Count() != 10 || relayB.Count() != 8 {
		t.Errorf("counters = %d/%d, want 10/8", relayA.Count(), relayB.Count())
	}
}

func TestOnFrameCallback(t *testing.T) {
	src := &fakeSource{frames: 20}
	var buf bytes.Buffer

	var sizes []int
	r := New(src, 10)
	r.OnFrame = func(size int) {
		sizes = append(sizes, size)
	}
	r.Stream(&buf)

	if len(sizes) != 2 {
		t.Fatalf("OnFrame called %d times, want 2", len(sizes))
	}
	for i, size := range sizes {
		if size != len("jpeg-frame-10") && size != len("jpeg-frame-20") {
			t.Errorf("OnFrame size %d = %d, unexpected", i, size)
		}
	}
	if !strings.Contains(buf.String(), "jpeg-frame-20") {
		t.Error("stream is missing the second emitted frame")
	}
}
