package system

import (
	"image"
	"sync"
)

// FramePool переиспользует буферы *image.RGBA между кадрами, чтобы
// поэкранный рендеринг не раздувал кучу и не грузил GC.
// Пулы раскладываются по размеру кадра, буферы разных прогонов
// (например, превью и экспорт) не смешиваются.
type FramePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalFrames = &FramePool{
	pools: make(map[string]*sync.Pool),
}

// GetFrame возвращает буфер кадра из пула либо выделяет новый
func GetFrame(rect image.Rectangle) *image.RGBA {
	return globalFrames.Get(rect)
}

// PutFrame возвращает буфер кадра в пул после использования
func PutFrame(img *image.RGBA) {
	globalFrames.Put(img)
}

func (p *FramePool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
