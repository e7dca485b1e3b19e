package terminal

import "fmt"

const (
	escape = string('\x1b')
	// csi Control Sequence Introducer.
	csi = escape + "["

	clearScreen = 2

	cursorBackSeq      = "%dD"
	cursorPositionSeq  = "%d;%dH"
	eraseDisplaySeq    = "%dJ"
	eraseEntireLineSeq = "2K"
	showCursorSeq      = "?25h"
	hideCursorSeq      = "?25l"
)

// ClearScreen clears the visible portion of the terminal and homes the cursor.
func (o *Out) ClearScreen() {
	if !o.isTerminal {
		return
	}

	fmt.Fprintf(o.out, csi+eraseDisplaySeq, clearScreen)
	fmt.Fprintf(o.out, csi+cursorPositionSeq, 1, 1)
}

func (o *Out) ClearLine() {
	if o.isTerminal {
		fmt.Fprint(o.out, csi+eraseEntireLineSeq)
	}
}

func (o *Out) HideCursor() {
	if o.isTerminal {
		fmt.Fprint(o.out, csi+hideCursorSeq)
	}
}

func (o *Out) ShowCursor() {
	if o.isTerminal {
		fmt.Fprint(o.out, csi+showCursorSeq)
	}
}

// CursorBack moves the cursor backwards a given number of cells.
func (o *Out) CursorBack(n int) {
	if o.isTerminal {
		fmt.Fprintf(o.out, csi+cursorBackSeq, n)
	}
}
