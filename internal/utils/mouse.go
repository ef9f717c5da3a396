package utils

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11 connection used for pointer queries when the window does not receive
// its own mouse events, such as a background window under a compositor.
var (
	XConn *xgb.Conn
	XRoot xproto.Window
)

func InitX11() error {
	var err error
	XConn, err = xgb.NewConn()
	if err != nil {
		return err
	}

	setup := xproto.Setup(XConn)
	XRoot = setup.DefaultScreen(XConn).Root
	return nil
}

func CloseX11() {
	if XConn != nil {
		XConn.Close()
		XConn = nil
	}
}

// GetGlobalMousePosition returns the pointer in root-window coordinates.
func GetGlobalMousePosition() (int, int, error) {
	if XConn == nil {
		if err := InitX11(); err != nil {
			return 0, 0, err
		}
	}

	reply, err := xproto.QueryPointer(XConn, XRoot).Reply()
	if err != nil {
		return 0, 0, err
	}

	return int(reply.RootX), int(reply.RootY), nil
}

// WindowLocalPointer converts a global pointer position into window-local
// coordinates. inside reports whether the point lies within the window.
func WindowLocalPointer(globalX, globalY, windowX, windowY, width, height int) (x, y float64, inside bool) {
	lx := globalX - windowX
	ly := globalY - windowY
	inside = lx >= 0 && ly >= 0 && lx < width && ly < height
	return float64(lx), float64(ly), inside
}
