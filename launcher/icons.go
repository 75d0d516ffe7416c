package launcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2/canvas"
	"golang.org/x/image/draw"
)

type iconRequest struct {
	key      string
	callback func(*canvas.Image)
}

// IconManager resolves desktop icon names to rendered images off the UI
// thread. Results land in a memory cache keyed by icon name and in a
// disk cache of pre-scaled PNGs, so late results for items that moved or
// vanished are harmless.
type IconManager struct {
	cache    sync.Map // map[string]*canvas.Image
	requests []iconRequest
	reqLock  sync.Mutex
	reqCond  *sync.Cond
	cacheDir string
	search   []string
}

var (
	MaxCacheSize  int64 = 100 * 1024 * 1024 // 100MB
	MaxCacheFiles int   = 5000
)

var (
	iconInstance *IconManager
	iconOnce     sync.Once
)

func GetIconManager() *IconManager {
	iconOnce.Do(func() {
		iconInstance = &IconManager{
			requests: make([]iconRequest, 0, 100),
			search:   iconSearchDirs(),
		}
		iconInstance.reqCond = sync.NewCond(&iconInstance.reqLock)

		if userCache, err := os.UserCacheDir(); err == nil {
			iconInstance.cacheDir = filepath.Join(userCache, "xlaunchpad")
			_ = os.MkdirAll(iconInstance.cacheDir, 0755)
			go iconInstance.cleanupCache()
		}

		for range 4 {
			go iconInstance.worker()
		}
	})
	return iconInstance
}

// LoadMemoryOnly retrieves an icon from the memory cache only.
// Returns nil if not in memory.
func (m *IconManager) LoadMemoryOnly(key string) *canvas.Image {
	if cached, ok := m.cache.Load(key); ok {
		return cached.(*canvas.Image)
	}
	return nil
}

func (m *IconManager) Load(key string, callback func(*canvas.Image)) {
	if key == "" {
		return
	}

	if cached, ok := m.cache.Load(key); ok {
		callback(cached.(*canvas.Image))
		return
	}

	// Check disk cache before queuing
	if m.cacheDir != "" {
		if path := m.resolveIconPath(key); path != "" {
			if cacheKey, err := m.generateCacheKey(path); err == nil {
				cachePath := filepath.Join(m.cacheDir, cacheKey+".png")
				if _, err := os.Stat(cachePath); err == nil {
					if img, err := decodeImage(cachePath); err == nil {
						canvasImg := canvas.NewImageFromImage(img)
						canvasImg.FillMode = canvas.ImageFillContain
						m.cache.Store(key, canvasImg)
						callback(canvasImg)
						return
					}
				}
			}
		}
	}

	// LIFO queue: the most recently visible item renders first. A full
	// queue drops the oldest request.
	m.reqLock.Lock()
	if len(m.requests) >= 100 {
		m.requests = m.requests[1:]
	}
	m.requests = append(m.requests, iconRequest{key: key, callback: callback})
	m.reqCond.Signal()
	m.reqLock.Unlock()
}

// Prewarm loads disk-cached icons into memory in the background, ahead
// of the grid becoming visible.
func (m *IconManager) Prewarm(keys []string) {
	if m.cacheDir == "" {
		return
	}

	go func() {
		for _, key := range keys {
			if key == "" {
				continue
			}
			if _, ok := m.cache.Load(key); ok {
				continue
			}

			path := m.resolveIconPath(key)
			if path == "" {
				continue
			}
			cacheKey, err := m.generateCacheKey(path)
			if err != nil {
				continue
			}

			cachePath := filepath.Join(m.cacheDir, cacheKey+".png")
			if _, err := os.Stat(cachePath); err == nil {
				if img, err := decodeImage(cachePath); err == nil {
					canvasImg := canvas.NewImageFromImage(img)
					canvasImg.FillMode = canvas.ImageFillContain
					m.cache.Store(key, canvasImg)
				}
			}
			// Small sleep to avoid I/O spikes
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

func (m *IconManager) worker() {
	for {
		m.reqLock.Lock()
		for len(m.requests) == 0 {
			m.reqCond.Wait()
		}
		lastIdx := len(m.requests) - 1
		req := m.requests[lastIdx]
		m.requests = m.requests[:lastIdx]
		m.reqLock.Unlock()

		if cached, ok := m.cache.Load(req.key); ok {
			req.callback(cached.(*canvas.Image))
			continue
		}

		path := m.resolveIconPath(req.key)
		if path == "" {
			continue
		}

		// SVG icons render natively in Fyne; skip the raster pipeline.
		if strings.EqualFold(filepath.Ext(path), ".svg") {
			canvasImg := canvas.NewImageFromFile(path)
			canvasImg.FillMode = canvas.ImageFillContain
			m.cache.Store(req.key, canvasImg)
			req.callback(canvasImg)
			continue
		}

		img, err := decodeImage(path)
		if err != nil || img == nil {
			continue
		}

		dst := scaleIcon(img)
		if dst == nil {
			continue
		}

		canvasImg := canvas.NewImageFromImage(dst)
		canvasImg.FillMode = canvas.ImageFillContain
		m.cache.Store(req.key, canvasImg)

		// Save to disk cache
		if m.cacheDir != "" {
			if cacheKey, err := m.generateCacheKey(path); err == nil {
				cachePath := filepath.Join(m.cacheDir, cacheKey+".png")
				f, err := os.Create(cachePath)
				if err == nil {
					_ = png.Encode(f, dst)
					f.Close()
				}
			}
		}

		req.callback(canvasImg)
	}
}

// scaleIcon fits the source into a transparent square, preserving aspect
// ratio. Doubled for high density displays.
func scaleIcon(img image.Image) *image.RGBA {
	const targetSize = 256

	srcBounds := img.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))

	var scaledW, scaledH int
	ratio := float64(srcW) / float64(srcH)
	if ratio > 1 {
		scaledW = targetSize
		scaledH = int(float64(targetSize) / ratio)
	} else {
		scaledH = targetSize
		scaledW = int(float64(targetSize) * ratio)
	}

	xBase := (targetSize - scaledW) / 2
	yBase := (targetSize - scaledH) / 2
	targetRect := image.Rect(xBase, yBase, xBase+scaledW, yBase+scaledH)

	// ApproxBiLinear keeps worker latency low; icons are small anyway.
	draw.ApproxBiLinear.Scale(dst, targetRect, img, srcBounds, draw.Over, nil)
	return dst
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// resolveIconPath turns a desktop Icon value into a concrete file path.
// Absolute paths pass through; names are looked up across the icon theme
// directories, preferring larger raster sizes.
func (m *IconManager) resolveIconPath(key string) string {
	if filepath.IsAbs(key) {
		if _, err := os.Stat(key); err == nil {
			return key
		}
		return ""
	}

	exts := []string{".png", ".svg", ".jpg", ".jpeg"}
	for _, dir := range m.search {
		for _, ext := range exts {
			candidate := filepath.Join(dir, key+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// iconSearchDirs builds the flat lookup order: hicolor raster sizes from
// large to small, scalable last among themed dirs, then pixmaps.
func iconSearchDirs() []string {
	var roots []string

	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".icons"))
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome != "" {
		roots = append(roots, filepath.Join(dataHome, "icons"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d != "" {
			roots = append(roots, filepath.Join(d, "icons"))
		}
	}

	sizes := []string{"256x256", "128x128", "96x96", "64x64", "48x48", "scalable"}
	var dirs []string
	for _, root := range roots {
		for _, size := range sizes {
			dirs = append(dirs, filepath.Join(root, "hicolor", size, "apps"))
		}
	}
	dirs = append(dirs, "/usr/share/pixmaps")
	return dirs
}

func (m *IconManager) generateCacheKey(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(absPath))
	h.Write([]byte(info.ModTime().String()))
	h.Write([]byte(fmt.Sprintf("%d", info.Size())))

	// Partial content guards against in-place icon updates that keep the
	// same size and mtime.
	f, err := os.Open(absPath)
	if err == nil {
		defer f.Close()
		buf := make([]byte, 32*1024)
		n, _ := f.Read(buf)
		h.Write(buf[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (m *IconManager) cleanupCache() {
	if m.cacheDir == "" {
		return
	}

	files, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return
	}

	type fileInfo struct {
		name string
		size int64
		time time.Time
	}

	var cachedFiles []fileInfo
	var totalSize int64

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".png" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, fileInfo{
			name: f.Name(),
			size: info.Size(),
			time: info.ModTime(),
		})
		totalSize += info.Size()
	}

	if totalSize <= MaxCacheSize && len(cachedFiles) <= MaxCacheFiles {
		return
	}

	// LRU: oldest first.
	sort.Slice(cachedFiles, func(i, j int) bool {
		return cachedFiles[i].time.Before(cachedFiles[j].time)
	})

	for _, f := range cachedFiles {
		if totalSize <= int64(float64(MaxCacheSize)*0.8) && len(cachedFiles) <= int(float64(MaxCacheFiles)*0.8) {
			break
		}
		_ = os.Remove(filepath.Join(m.cacheDir, f.name))
		totalSize -= f.size
		cachedFiles = cachedFiles[1:]
	}
}
