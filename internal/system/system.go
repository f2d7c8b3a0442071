package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// FindLatestProject ищет в папке самый свежий файл проекта (*.yaml, *.yml)
func FindLatestProject(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов проекта", dir)
	}

	return latestFile, nil
}

// BestEncoder выбирает лучший доступный H264-кодировщик.
// Приоритет: аппаратные (VideoToolbox, NVENC), затем программный libx264.
func BestEncoder() string {
	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		log.Printf("[!] Не удалось опросить ffmpeg: %v", err)
		return "libx264"
	}

	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}

	return "libx264"
}

// HostSummary собирает краткую сводку о машине для стартового баннера
func HostSummary() string {
	var parts []string

	if hi, err := host.Info(); err == nil {
		parts = append(parts, fmt.Sprintf("%s %s", hi.Platform, hi.PlatformVersion))
	}
	if cores, err := cpu.Counts(true); err == nil {
		parts = append(parts, fmt.Sprintf("CPU: %d потоков", cores))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		parts = append(parts, fmt.Sprintf("RAM: %.1f ГБ", float64(vm.Total)/(1<<30)))
	}

	if len(parts) == 0 {
		return "нет данных о системе"
	}

	return strings.Join(parts, " | ")
}

// SelfRSS возвращает потребление памяти текущим процессом в мегабайтах.
// При ошибке возвращает 0.
func SelfRSS() float64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}

	mi, err := p.MemoryInfo()
	if err != nil || mi == nil {
		return 0
	}

	return float64(mi.RSS) / (1 << 20)
}
