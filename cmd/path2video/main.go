package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/ivlev/path2video/internal/analyzer"
	"github.com/ivlev/path2video/internal/config"
	"github.com/ivlev/path2video/internal/director"
	"github.com/ivlev/path2video/internal/engine"
	"github.com/ivlev/path2video/internal/playback"
	"github.com/ivlev/path2video/internal/project"
	"github.com/ivlev/path2video/internal/source"
	"github.com/ivlev/path2video/internal/system"
	"github.com/ivlev/path2video/internal/timeline"
	"github.com/ivlev/path2video/internal/tui"
	"github.com/ivlev/path2video/internal/video"
	"github.com/ivlev/path2video/internal/watch"
)

var buildVersion = "dev"

func main() {
	// Создаем нужные директории, если их нет
	for _, d := range []string{"projects", "output"} {
		os.MkdirAll(d, 0755)
	}

	projectPtr := flag.String("project", "", "Путь к файлу проекта (по умолчанию: самый свежий *.yaml в projects/)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	initPtr := flag.String("init", "", "Путь к изображению или PDF: проанализировать и создать проект тура")
	detectorPtr := flag.String("detector", "contrast", "Детектор областей для -init: contrast, grid")
	pagePtr := flag.Int("page", -1, "Номер страницы источника (-1 - из проекта)")
	dpiPtr := flag.Int("dpi", 300, "DPI рендеринга PDF")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", 0, "Потоки рендеринга (0 - авто)")
	holdPtr := flag.Float64("hold", 1.0, "Удержание финального кадра (сек)")
	encoderPtr := flag.String("encoder", "", "Кодировщик H264 (пусто - автоопределение)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF, VideoToolbox: битрейт = Q*100кбит/с)")
	previewPtr := flag.Bool("preview", false, "Открыть интерактивный плеер вместо экспорта")
	loopPtr := flag.Bool("loop", false, "Зациклить воспроизведение в плеере")
	inspectPtr := flag.Bool("inspect", false, "Показать расписание тайм-лайна и выйти")
	watchPtr := flag.Bool("watch", false, "Следить за проектом: перезагрузка плеера или переэкспорт")
	statsPtr := flag.Bool("stats", false, "Отчет о производительности после экспорта")

	flag.Parse()

	// Режим создания проекта из изображения
	if *initPtr != "" {
		runInit(*initPtr, *detectorPtr, *dpiPtr, *pagePtr)
		return
	}

	projectPath := *projectPtr
	if projectPath == "" {
		latest, err := system.FindLatestProject("projects")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Создайте проект через -init или положите YAML в projects/", err)
		}
		projectPath = latest
		fmt.Printf("[*] Выбран проект: %s\n", projectPath)
	}

	if *inspectPtr {
		proj, err := project.Read(projectPath)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения проекта: %v", err)
		}
		runInspect(projectPath, proj)
		return
	}

	if *previewPtr {
		runPreview(projectPath, *loopPtr, *watchPtr)
		return
	}

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}

	encoderName := *encoderPtr
	if encoderName == "" {
		encoderName = system.BestEncoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
	}

	quality := *qualityPtr
	if quality == 0 {
		quality = video.DefaultQuality(encoderName)
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		baseName := filepath.Base(projectPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}

	cfg := &config.Config{
		ProjectPath:  projectPath,
		OutputVideo:  finalOutput,
		Page:         *pagePtr,
		DPI:          *dpiPtr,
		Width:        width,
		Height:       height,
		FPS:          *fpsPtr,
		Workers:      *workersPtr,
		Hold:         *holdPtr,
		Preset:       *presetPtr,
		VideoEncoder: encoderName,
		Quality:      quality,
		Watch:        *watchPtr,
		ShowStats:    *statsPtr,
		BuildVersion: buildVersion,
	}

	if *watchPtr {
		runWatchExport(cfg)
		return
	}

	if err := runExport(cfg); err != nil {
		log.Fatalf("[-] Ошибка экспорта: %v", err)
	}
}

// runExport читает проект и источник заново и прогоняет движок
func runExport(cfg *config.Config) error {
	proj, err := project.Read(cfg.ProjectPath)
	if err != nil {
		return err
	}

	src, err := source.Open(resolveImagePath(cfg.ProjectPath, proj.Image))
	if err != nil {
		return fmt.Errorf("ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	exp := engine.NewExporter(cfg, proj, src, &video.FFmpegEncoder{})
	return exp.Run(context.Background())
}

func runWatchExport(cfg *config.Config) {
	if err := runExport(cfg); err != nil {
		log.Printf("[!] Ошибка экспорта: %v", err)
	}

	changes := make(chan struct{}, 1)
	cleanup, err := watch.Start(cfg.ProjectPath, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		log.Fatalf("[-] Ошибка наблюдателя: %v", err)
	}
	defer cleanup()

	fmt.Printf("[*] Наблюдение за %s, Ctrl+C для выхода\n", cfg.ProjectPath)
	for range changes {
		fmt.Println("[*] Проект изменился, переэкспорт...")
		if err := runExport(cfg); err != nil {
			log.Printf("[!] Ошибка экспорта: %v", err)
		}
	}
}

func runPreview(path string, loop, watchFile bool) {
	m, err := tui.NewModel(path)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки проекта: %v", err)
	}
	m = m.WithLoop(loop)

	p := tea.NewProgram(m, tea.WithAltScreen())

	if watchFile {
		cleanup, err := watch.Start(path, func() {
			p.Send(tui.ProjectChangedMsg{})
		})
		if err != nil {
			log.Printf("[!] Наблюдатель не запустился: %v", err)
		} else {
			defer cleanup()
		}
	}

	if _, err := p.Run(); err != nil {
		log.Fatalf("[-] Ошибка плеера: %v", err)
	}
}

func runInit(imagePath, detectorName string, dpi, page int) {
	fmt.Println("[*] Режим создания проекта...")

	if page < 0 {
		page = 0
	}

	img, err := source.LoadPage(imagePath, page, dpi)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки источника: %v", err)
	}

	det, err := analyzer.NewDetector(detectorName)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	fmt.Printf("[*] Анализ %s (детектор: %s)...\n", imagePath, detectorName)
	regions, err := det.Detect(img)
	if err != nil {
		log.Fatalf("[-] Ошибка анализа: %v", err)
	}
	fmt.Printf("[*] Найдено областей: %d\n", len(regions))

	b := img.Bounds()
	proj, err := director.NewDirector().Compose(regions, b.Dx(), b.Dy(), director.Options{
		Image: filepath.Base(imagePath),
		Page:  page,
	})
	if err != nil {
		log.Fatalf("[-] Ошибка компоновки тура: %v", err)
	}

	outPath := director.ProjectPath(imagePath)
	if err := project.Write(proj, outPath); err != nil {
		log.Fatalf("[-] Ошибка записи проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Проект сохранен: %s\n", outPath)
	fmt.Printf("[*] Откройте плеер: path2video -project %s -preview\n", outPath)
}

// runInspect печатает расписание тайм-лайна в виде таблицы
func runInspect(path string, proj *project.Project) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	sched := timeline.Build(proj.Metrics(), proj.Items, proj.Defaults())
	flash := proj.Flash()

	fmt.Printf("%s %s\n", bold("Проект:"), path)
	fmt.Printf("Длина пути: %.1f px | Событий: %d | Длительность: %.2fs",
		sched.TotalLength, len(sched.Events), sched.TotalDuration)
	if flash.Enabled {
		fmt.Printf(" (+%.2fs вспышка)", flash.Duration)
	}
	fmt.Println()
	fmt.Println()

	fmt.Printf("%s\n", bold(fmt.Sprintf("%3s  %-5s %7s %7s  %-17s %s", "#", "ТИП", "СТАРТ", "ДЛИТ", "ДИСТАНЦИЯ", "ЭЛЕМЕНТ")))
	for i, ev := range sched.Events {
		evType := ev.Type
		switch ev.Type {
		case timeline.EventDraw:
			evType = cyan(ev.Type)
		case timeline.EventWait:
			evType = yellow(ev.Type)
		case timeline.EventArea:
			evType = green(ev.Type)
		}

		dist := distanceCell(ev)

		item := ev.ItemID
		if item == "" {
			item = dim("-")
		}

		fmt.Printf("%3d  %-14s %7.2f %7.2f  %-17s %s\n", i, evType, ev.Start, ev.Duration, dist, item)
	}

	fmt.Println()
	session := playback.SessionLength(sched, flash)
	label := "Полная длительность"
	if flash.Enabled {
		label = "Полная длительность со вспышкой"
	}
	fmt.Printf("%s: %s\n", label, bold(fmt.Sprintf("%.2fs", session)))
}

// distanceCell форматирует колонку дистанции: draw показывает диапазон,
// остальные события стоят на месте
func distanceCell(ev timeline.Event) string {
	if ev.Type == timeline.EventDraw {
		return fmt.Sprintf("%.1f → %.1f", ev.StartDistance, ev.EndDistance)
	}
	return fmt.Sprintf("%.1f", ev.StartDistance)
}

// resolveImagePath разворачивает путь к изображению относительно файла проекта
func resolveImagePath(projectPath, image string) string {
	if image == "" {
		return image
	}
	if filepath.IsAbs(image) {
		return image
	}
	return filepath.Join(filepath.Dir(projectPath), image)
}
