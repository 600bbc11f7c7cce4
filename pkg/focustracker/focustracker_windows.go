//go:build windows

package focustracker

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsPoller polls the foreground window handle and reports a window only
// when that handle changes, then extracts process name, title, and a
// best-effort icon. TrackFocus still deduplicates by process name, so a
// switch between two windows of the same process produces no event. Grounded on the original Rust implementation's
// eur-timeline/src/windows/impl_focus_tracker.rs: WM_GETICON, falling back
// to the class icon, then GDI BitBlt + GetPixel to rasterize, PNG-encoded
// and base64-wrapped as a data URL. Any failure in the icon chain yields an
// empty icon rather than an error (spec §4.1).
type windowsPoller struct {
	lastHWND windows.HWND
}

func newPlatformPoller() platformPoller { return &windowsPoller{} }

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetForegroundWindow    = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW         = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcess = user32.NewProc("GetWindowThreadProcessId")
	procSendMessageW           = user32.NewProc("SendMessageW")
	procGetClassLongPtrW       = user32.NewProc("GetClassLongPtrW")
	procGetIconInfo            = user32.NewProc("GetIconInfo")

	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procCreateCompatBitmap = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procGetPixel           = gdi32.NewProc("GetPixel")
	procGetObjectW         = gdi32.NewProc("GetObjectW")

	procOpenProcess            = kernel32.NewProc("OpenProcess")
	procCloseHandle            = kernel32.NewProc("CloseHandle")
	procQueryFullProcessImage  = kernel32.NewProc("QueryFullProcessImageNameW")
)

const (
	wmGeticon             = 0x007F
	iconBig               = 1
	gclpHicon             = ^uintptr(13) // GCL_HICON == -14 as uintptr wraps
	processQueryLimited    = 0x1000
	srccopy               = 0x00CC0020
)

type iconInfo struct {
	fIcon    int32
	xHotspot uint32
	yHotspot uint32
	hbmMask  windows.Handle
	hbmColor windows.Handle
}

type bitmapInfo struct {
	bmType       int32
	bmWidth      int32
	bmHeight     int32
	bmWidthBytes int32
	bmPlanes     uint16
	bmBitsPixel  uint16
	bmBits       uintptr
}

func (p *windowsPoller) Poll(icon IconConfig) (FocusedWindow, bool, error) {
	hwndRet, _, _ := procGetForegroundWindow.Call()
	hwnd := windows.HWND(hwndRet)
	if hwnd == 0 {
		return FocusedWindow{}, false, nil
	}
	if hwnd == p.lastHWND {
		return FocusedWindow{}, false, nil
	}

	title := windowTitle(hwnd)

	var pid uint32
	procGetWindowThreadProcess.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))

	name, err := processExeName(pid)
	if err != nil {
		return FocusedWindow{}, false, fmt.Errorf("query process image name: %w", err)
	}

	p.lastHWND = hwnd

	win := FocusedWindow{
		ProcessID:   pid,
		ProcessName: name,
		WindowTitle: title,
	}
	if b64, ok := windowIconBase64(hwnd); ok {
		win.IconURL = b64
	}
	return win, true, nil
}

func windowTitle(hwnd windows.HWND) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func processExeName(pid uint32) (string, error) {
	h, _, _ := procOpenProcess.Call(uintptr(processQueryLimited), 0, uintptr(pid))
	if h == 0 {
		return "", fmt.Errorf("OpenProcess failed for pid %d", pid)
	}
	defer procCloseHandle.Call(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	ret, _, _ := procQueryFullProcessImage.Call(h, 0, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if ret == 0 {
		return "", fmt.Errorf("QueryFullProcessImageNameW failed for pid %d", pid)
	}
	full := syscall.UTF16ToString(buf[:size])
	return baseName(full), nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' || path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// windowIconBase64 attempts WM_GETICON then the class icon, rasterizes via
// GDI, and returns a "data:image/png;base64,..." string. Any step failing
// returns ("", false) — never an error.
func windowIconBase64(hwnd windows.HWND) (string, bool) {
	hicon, _, _ := procSendMessageW.Call(uintptr(hwnd), uintptr(wmGeticon), uintptr(iconBig), 0)
	if hicon == 0 {
		hicon, _, _ = procGetClassLongPtrW.Call(uintptr(hwnd), gclpHicon)
	}
	if hicon == 0 {
		return "", false
	}

	var info iconInfo
	ret, _, _ := procGetIconInfo.Call(hicon, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return "", false
	}
	defer procDeleteObject.Call(uintptr(info.hbmMask))
	defer procDeleteObject.Call(uintptr(info.hbmColor))

	var bmp bitmapInfo
	ret, _, _ = procGetObjectW.Call(uintptr(info.hbmColor), unsafe.Sizeof(bmp), uintptr(unsafe.Pointer(&bmp)))
	if ret == 0 {
		return "", false
	}

	width, height := int(bmp.bmWidth), int(bmp.bmHeight)
	if width <= 0 || height <= 0 {
		return "", false
	}

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return "", false
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return "", false
	}
	defer procDeleteDC.Call(memDC)

	compatBitmap, _, _ := procCreateCompatBitmap.Call(screenDC, uintptr(width), uintptr(height))
	if compatBitmap == 0 {
		return "", false
	}
	defer procDeleteObject.Call(compatBitmap)

	oldObj, _, _ := procSelectObject.Call(memDC, compatBitmap)
	defer procSelectObject.Call(memDC, oldObj)

	procBitBlt.Call(memDC, 0, 0, uintptr(width), uintptr(height), screenDC, 0, 0, srccopy)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel, _, _ := procGetPixel.Call(memDC, uintptr(x), uintptr(y))
			r := byte(pixel & 0xFF)
			g := byte((pixel >> 8) & 0xFF)
			b := byte((pixel >> 16) & 0xFF)
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", false
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), true
}
