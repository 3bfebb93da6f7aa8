package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

// Synthetic - заглушка источника: рисует бегущий тестовый паттерн.
// Используется для камер с адресом synthetic: и в тестах хендлеров,
// когда реальная камера недоступна.
type Synthetic struct {
	quality int
	n       int
	width   int
	height  int
}

// NewSynthetic создает синтетический источник
func NewSynthetic(quality int) *Synthetic {
	return &Synthetic{
		quality: quality,
		width:   320,
		height:  240,
	}
}

// Grab продвигает паттерн на один кадр
func (s *Synthetic) Grab() bool {
	s.n++
	return true
}

// ReadJPEG отдает следующий кадр паттерна в JPEG
func (s *Synthetic) ReadJPEG() ([]byte, bool) {
	s.n++

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.frame(), &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

// frame рисует паттерн для текущей позиции счетчика, не продвигая его
func (s *Synthetic) frame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	bar := (s.n * 4) % s.width
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := color.RGBA{
				R: uint8(x * 255 / s.width),
				G: uint8(y * 255 / s.height),
				B: 64,
				A: 255,
			}
			if x >= bar && x < bar+8 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Close у синтетического источника ничего не освобождает
func (s *Synthetic) Close() error {
	return nil
}
