package stats

import (
	"sync"
	"time"
)

// Invocation - одна живая ретрансляция (один зритель)
type Invocation struct {
	ID        int64     `json:"id"`
	Principal string    `json:"principal"`
	Camera    string    `json:"camera"`
	StartedAt time.Time `json:"started_at"`
	Frames    int64     `json:"frames"`
	Bytes     int64     `json:"bytes"`
}

// Registry - реестр живых ретрансляций (in-memory).
// Чисто наблюдательный: на поведение ретрансляций не влияет.
type Registry struct {
	mu     sync.RWMutex
	seq    int64
	active map[int64]*Invocation

	totalFrames int64
	totalBytes  int64
}

// NewRegistry создает новый реестр
func NewRegistry() *Registry {
	return &Registry{
		active: make(map[int64]*Invocation),
	}
}

// Begin регистрирует новую ретрансляцию и возвращает ее ID
func (r *Registry) Begin(principal, cameraName string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.active[r.seq] = &Invocation{
		ID:        r.seq,
		Principal: principal,
		Camera:    cameraName,
		StartedAt: time.Now(),
	}
	return r.seq
}

// Update учитывает отданный кадр
func (r *Registry) Update(id int64, frameBytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.active[id]
	if !ok {
		return
	}
	inv.Frames++
	inv.Bytes += int64(frameBytes)
	r.totalFrames++
	r.totalBytes += int64(frameBytes)
}

// End снимает ретрансляцию с учета
func (r *Registry) End(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, id)
}

// Active возвращает копию списка живых ретрансляций
func (r *Registry) Active() []Invocation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Invocation, 0, len(r.active))
	for _, inv := range r.active {
		result = append(result, *inv)
	}
	return result
}

// Totals возвращает накопленную статистику
func (r *Registry) Totals() (viewers int, frames, bytes int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.active), r.totalFrames, r.totalBytes
}
