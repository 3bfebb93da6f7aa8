package capture

import (
	"fmt"

	"gocv.io/x/gocv"

	"camera-relay/internal/camera"
	"camera-relay/internal/relay"
)

// Open подключается к потоку камеры.
// Для synthetic-камер возвращается генератор тестового паттерна.
func Open(cam camera.Camera, quality int) (relay.Source, error) {
	if cam.IsSynthetic() {
		return NewSynthetic(quality), nil
	}

	vc, err := gocv.OpenVideoCapture(cam.StreamURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %q: %w", cam.Name, err)
	}

	return &videoSource{
		capture: vc,
		img:     gocv.NewMat(),
		quality: quality,
	}, nil
}

// videoSource - источник кадров поверх gocv.VideoCapture
type videoSource struct {
	capture *gocv.VideoCapture
	img     gocv.Mat
	quality int
}

// Grab продвигает поток на один кадр без декодирования
func (s *videoSource) Grab() bool {
	if !s.capture.IsOpened() {
		return false
	}
	s.capture.Grab(1)
	return true
}

// ReadJPEG декодирует следующий кадр и кодирует его в JPEG
func (s *videoSource) ReadJPEG() ([]byte, bool) {
	for {
		if ok := s.capture.Read(&s.img); !ok {
			return nil, false
		}
		if s.img.Empty() {
			continue
		}
		break
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, s.img,
		[]int{gocv.IMWriteJpegQuality, s.quality})
	if err != nil {
		return nil, false
	}
	defer buf.Close()

	// Буфер принадлежит OpenCV, копируем перед возвратом
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, true
}

// Close освобождает соединение с камерой
func (s *videoSource) Close() error {
	if err := s.img.Close(); err != nil {
		return err
	}
	return s.capture.Close()
}
