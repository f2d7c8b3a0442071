package engine

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/path2video/internal/config"
	"github.com/ivlev/path2video/internal/playback"
	"github.com/ivlev/path2video/internal/project"
	"github.com/ivlev/path2video/internal/render"
	"github.com/ivlev/path2video/internal/source"
	"github.com/ivlev/path2video/internal/system"
	"github.com/ivlev/path2video/internal/timeline"
	"github.com/ivlev/path2video/internal/video"
)

// Exporter прогоняет проект через покадровый рендер и кодирование
type Exporter struct {
	Config  *config.Config
	Project *project.Project
	Source  source.Source
	Encoder video.Encoder
}

func NewExporter(cfg *config.Config, proj *project.Project, src source.Source, enc video.Encoder) *Exporter {
	return &Exporter{
		Config:  cfg,
		Project: proj,
		Source:  src,
		Encoder: enc,
	}
}

func (e *Exporter) Run(ctx context.Context) error {
	startTime := time.Now()

	pageCount := e.Source.PageCount()
	if pageCount == 0 {
		return fmt.Errorf("источник не содержит страниц")
	}

	page := e.Project.Page
	if e.Config.Page >= 0 {
		page = e.Config.Page
	}
	if page < 0 || page >= pageCount {
		return fmt.Errorf("страница %d вне диапазона, в документе %d", page, pageCount)
	}

	base, err := e.Source.Render(page, e.Config.DPI)
	if err != nil {
		return fmt.Errorf("ошибка рендеринга страницы %d: %v", page, err)
	}

	// Если размер не задан явно, подгоняем ширину под пропорции источника
	width, height := e.Config.Width, e.Config.Height
	if width == 1280 && height == 720 {
		b := base.Bounds()
		width = fitWidth(b.Dx(), b.Dy(), height)
	}
	width, height = evenDims(width, height)

	sched := timeline.Build(e.Project.Metrics(), e.Project.Items, e.Project.Defaults())
	flash := e.Project.Flash()

	total := playback.SessionLength(sched, flash) + e.Config.Hold
	frames := frameCount(total, e.Config.FPS)

	workers := e.Config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}
	if workers > frames {
		workers = frames
	}

	fmt.Println("--- [PATH2VIDEO ENGINE] ---")
	fmt.Printf("[*] Система: %s\n", system.HostSummary())
	fmt.Printf("[*] Проект: %s | Точек пути: %d | Элементов: %d\n",
		e.Config.ProjectPath, len(e.Project.Waypoints), len(e.Project.Items))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Кадров: %d (%.2fs)\n",
		width, height, e.Config.FPS, frames, total)
	fmt.Printf("[*] Кодировщик: %s | Потоков рендера: %d\n", e.Config.VideoEncoder, workers)
	fmt.Println("---------------------------")

	renderer := render.NewRenderer(base, e.Project, width, height)

	g, ctx := errgroup.WithContext(ctx)

	// Каждый воркер рендерит кадры с шагом workers и пишет в свой
	// канал; сборщик читает каналы по кругу и восстанавливает порядок
	outs := make([]chan *image.RGBA, workers)
	for w := range outs {
		outs[w] = make(chan *image.RGBA, 4)
	}

	rect := image.Rect(0, 0, width, height)
	fps := float64(e.Config.FPS)

	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			defer close(outs[w])
			for i := w; i < frames; i += workers {
				t := float64(i) / fps
				st := playback.Resolve(sched, flash, t)

				frame := system.GetFrame(rect)
				renderer.RenderFrame(frame, sched, st, playback.EffectiveTime(flash, t))

				select {
				case outs[w] <- frame:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	encodeFrames := make(chan *image.RGBA, workers)
	step := frames / 10
	if step == 0 {
		step = 1
	}

	g.Go(func() error {
		defer close(encodeFrames)
		for i := 0; i < frames; i++ {
			frame, ok := <-outs[i%workers]
			if !ok {
				return fmt.Errorf("конвейер рендеринга прерван на кадре %d", i)
			}
			select {
			case encodeFrames <- frame:
			case <-ctx.Done():
				return ctx.Err()
			}
			if (i+1)%step == 0 || i+1 == frames {
				fmt.Printf("[>] Кадры: %d/%d (%.0f%%)\n", i+1, frames, float64(i+1)/float64(frames)*100)
			}
		}
		return nil
	})

	opts := video.EncodeOptions{
		OutputPath: e.Config.OutputVideo,
		Width:      width,
		Height:     height,
		FPS:        e.Config.FPS,
		Encoder:    e.Config.VideoEncoder,
		Quality:    e.Config.Quality,
	}
	g.Go(func() error {
		return e.Encoder.Encode(ctx, opts, encodeFrames)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	totalTime := time.Since(startTime)
	outFPS := float64(frames) / totalTime.Seconds()

	fmt.Printf("[+++] Успех! Видео сохранено: %s\n", e.Config.OutputVideo)

	if e.Config.ShowStats {
		report := fmt.Sprintf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Frames: %d\n"+
				"Effective FPS: %.2f\n"+
				"RSS: %.1f MB\n"+
				"----------------------------\n",
			e.Config.BuildVersion, totalTime.Seconds(), frames, outFPS, system.SelfRSS(),
		)
		fmt.Print(report)

		logEntry := fmt.Sprintf("[%s] Build: %s | Project: %s | Frames: %d | Total: %.2fs | FPS: %.2f\n",
			time.Now().Format("2006-01-02 15:04:05"),
			e.Config.BuildVersion,
			filepath.Base(e.Config.ProjectPath),
			frames,
			totalTime.Seconds(),
			outFPS,
		)

		f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			f.WriteString(logEntry)
			f.Close()
		} else {
			fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		}
	}

	return nil
}

// frameCount переводит длительность в число кадров, минимум один кадр
func frameCount(seconds float64, fps int) int {
	n := int(math.Ceil(seconds * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n
}

// fitWidth подбирает ширину кадра под пропорции источника
func fitWidth(srcW, srcH, height int) int {
	if srcH == 0 {
		return height
	}
	return int(float64(height) * float64(srcW) / float64(srcH))
}

// evenDims выравнивает размеры до чётных, yuv420p требует кратности 2
func evenDims(w, h int) (int, int) {
	if w%2 != 0 {
		w++
	}
	if h%2 != 0 {
		h++
	}
	return w, h
}
