//go:build windows

package taskbar

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/junsooki/Sylnode/internal/icon"
	"github.com/junsooki/Sylnode/internal/logging"
)

var (
	clsidTaskbarList   = ole.NewGUID("{56FDF344-FD6D-11d0-958A-006097C9A090}")
	iidITaskbarList3   = ole.NewGUID("{EA1AFB91-9E28-4B86-90E9-9E9F8A5EEFAF}")
	user32             = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW    = user32.NewProc("FindWindowW")
	procCreateIconFrom = user32.NewProc("CreateIconFromResourceEx")
	procDestroyIcon    = user32.NewProc("DestroyIcon")
)

// ITaskbarList3 vtable indices.
const (
	vtblRelease        = 2
	vtblHrInit         = 3
	vtblSetOverlayIcon = 18
)

const iconResourceVersion = 0x00030000

// Overlay drives ITaskbarList3::SetOverlayIcon. COM objects are apartment
// threaded, so every call runs on one OS-locked goroutine.
type Overlay struct {
	title string
	log   *zap.Logger

	reqs      chan func()
	done      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once

	// Owned by the COM goroutine.
	list  uintptr
	hwnd  windows.HWND
	icons map[*icon.Icon]windows.Handle
}

// New starts the COM goroutine and creates the taskbar list. windowTitle
// identifies the window whose button gets the overlay; the window may not
// exist yet.
func New(windowTitle string, log *zap.Logger) (*Overlay, error) {
	o := &Overlay{
		title:  windowTitle,
		log:    logging.OrNop(log).Named("taskbar"),
		reqs:   make(chan func()),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		icons:  make(map[*icon.Icon]windows.Handle),
	}

	initErr := make(chan error, 1)
	go o.run(initErr)
	if err := <-initErr; err != nil {
		return nil, err
	}
	return o, nil
}

// SetOverlay installs ic on the taskbar button, or clears the overlay when
// ic is nil.
func (o *Overlay) SetOverlay(ic *icon.Icon, description string) error {
	errCh := make(chan error, 1)
	select {
	case o.reqs <- func() { errCh <- o.setOverlay(ic, description) }:
	case <-o.done:
		return errors.New("taskbar overlay closed")
	}
	return <-errCh
}

// Close clears the overlay and releases every COM and icon resource. It
// returns once the COM goroutine has exited.
func (o *Overlay) Close() error {
	o.closeOnce.Do(func() { close(o.done) })
	<-o.exited
	return nil
}

func (o *Overlay) run(initErr chan<- error) {
	defer close(o.exited)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		initErr <- fmt.Errorf("failed to initialize COM: %w", err)
		return
	}
	defer ole.CoUninitialize()

	unk, err := ole.CreateInstance(clsidTaskbarList, iidITaskbarList3)
	if err != nil {
		initErr <- fmt.Errorf("failed to create taskbar list: %w", err)
		return
	}
	o.list = uintptr(unsafe.Pointer(unk))
	defer comCall(o.list, vtblRelease)

	if _, err := comCall(o.list, vtblHrInit); err != nil {
		initErr <- fmt.Errorf("taskbar list init: %w", err)
		return
	}
	initErr <- nil

	for {
		select {
		case fn := <-o.reqs:
			fn()
		case <-o.done:
			if o.hwnd != 0 {
				comCall(o.list, vtblSetOverlayIcon, uintptr(o.hwnd), 0, 0)
			}
			for _, h := range o.icons {
				procDestroyIcon.Call(uintptr(h))
			}
			return
		}
	}
}

func (o *Overlay) setOverlay(ic *icon.Icon, description string) error {
	hwnd, err := o.window()
	if err != nil {
		return err
	}

	var hicon windows.Handle
	var desc *uint16
	if ic != nil {
		if hicon, err = o.hicon(ic); err != nil {
			return err
		}
		if desc, err = windows.UTF16PtrFromString(description); err != nil {
			return err
		}
	}

	_, err = comCall(o.list, vtblSetOverlayIcon, uintptr(hwnd), uintptr(hicon), uintptr(unsafe.Pointer(desc)))
	runtime.KeepAlive(desc)
	if err != nil {
		// The button may have been recreated (explorer restart).
		o.hwnd = 0
		return fmt.Errorf("set overlay icon: %w", err)
	}
	return nil
}

func (o *Overlay) window() (windows.HWND, error) {
	if o.hwnd != 0 {
		return o.hwnd, nil
	}
	title, err := windows.UTF16PtrFromString(o.title)
	if err != nil {
		return 0, err
	}
	r, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
	if r == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoWindow, o.title)
	}
	o.hwnd = windows.HWND(r)
	o.log.Debug("taskbar window found", zap.Uintptr("hwnd", r))
	return o.hwnd, nil
}

func (o *Overlay) hicon(ic *icon.Icon) (windows.Handle, error) {
	if h, ok := o.icons[ic]; ok {
		return h, nil
	}
	data := ic.PNG()
	if len(data) == 0 {
		return 0, errors.New("empty icon")
	}
	w, h := ic.Size()
	r, _, callErr := procCreateIconFrom.Call(
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
		1, // icon, not cursor
		iconResourceVersion,
		uintptr(w),
		uintptr(h),
		0,
	)
	if r == 0 {
		return 0, fmt.Errorf("create icon: %w", callErr)
	}
	o.icons[ic] = windows.Handle(r)
	return windows.Handle(r), nil
}

// comCall invokes a COM method by vtable index.
func comCall(obj uintptr, vtableIdx int, args ...uintptr) (uintptr, error) {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	fnPtr := *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(vtableIdx)*unsafe.Sizeof(uintptr(0))))
	allArgs := make([]uintptr, 0, 1+len(args))
	allArgs = append(allArgs, obj)
	allArgs = append(allArgs, args...)
	ret, _, _ := syscall.SyscallN(fnPtr, allArgs...)
	if int32(ret) < 0 {
		return ret, fmt.Errorf("COM vtable[%d] HRESULT 0x%08X", vtableIdx, uint32(ret))
	}
	return ret, nil
}
