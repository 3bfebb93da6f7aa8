package relay

import (
	"fmt"
	"io"
	"net/http"
)

// Boundary - разделитель частей multipart-потока
const Boundary = "frame"

// ContentType - значение Content-Type для ответа /video_feed
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

// Source - источник кадров одной камеры.
// Grab продвигает поток на один кадр без декодирования,
// ReadJPEG декодирует следующий кадр и отдает его в JPEG.
// Отказ любого из них завершает ретрансляцию.
type Source interface {
	Grab() bool
	ReadJPEG() ([]byte, bool)
	Close() error
}

// Relay ретранслирует кадры одного источника одному зрителю.
// Счетчик кадров и каденция пропуска живут внутри одного экземпляра:
// ретрансляции разных зрителей друг на друга не влияют.
type Relay struct {
	source   Source
	interval int
	count    int64

	// OnFrame вызывается после каждого отданного кадра (размер в байтах)
	OnFrame func(size int)
}

// New создает новую ретрансляцию поверх источника.
// interval=1 означает отдачу каждого кадра.
func New(source Source, interval int) *Relay {
	if interval < 1 {
		interval = 1
	}
	return &Relay{
		source:   source,
		interval: interval,
	}
}

// Count возвращает число потребленных кадров источника
func (r *Relay) Count() int64 {
	return r.count
}

// Next продвигает поток до следующего отдаваемого кадра.
// Кадры между отдаваемыми пропускаются через Grab без декодирования.
// false означает конец потока (источник закрылся или чтение не удалось).
func (r *Relay) Next() ([]byte, bool) {
	for {
		next := r.count + 1
		if next%int64(r.interval) != 0 {
			if !r.source.Grab() {
				return nil, false
			}
			r.count = next
			continue
		}

		buf, ok := r.source.ReadJPEG()
		if !ok {
			return nil, false
		}
		r.count = next
		return buf, true
	}
}

// Stream пишет multipart-поток в w, пока источник отдает кадры,
// а потребитель их читает. Возвращает число отданных кадров.
func (r *Relay) Stream(w io.Writer) int64 {
	flusher, _ := w.(http.Flusher)

	var emitted int64
	for {
		buf, ok := r.Next()
		if !ok {
			return emitted
		}

		if err := WritePart(w, buf); err != nil {
			// Потребитель отвалился
			return emitted
		}
		emitted++

		if r.OnFrame != nil {
			r.OnFrame(len(buf))
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// WritePart пишет один JPEG-кадр как часть multipart-потока
func WritePart(w io.Writer, frame []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\n\r\n", Boundary); err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
