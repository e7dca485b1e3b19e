package terminal

const (
	Black = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

func (o *Out) SetColor(colorCode int) {
	if o.isTerminal {
		o.Printf(csi+"38;5;%d"+"m", colorCode)
	}
}

func (o *Out) ResetColor() {
	if o.isTerminal {
		o.Print(csi + "0m")
	}
}

// Colorf writes a formatted line in the given colour.
func (o *Out) Colorf(colorCode int, format string, args ...any) {
	o.SetColor(colorCode)
	o.Printf(format, args...)
	o.ResetColor()
	o.Println()
}

func (o *Out) Success(format string, args ...any) {
	o.Colorf(Green, "✓ "+format, args...)
}

func (o *Out) Warn(format string, args ...any) {
	o.Colorf(Yellow, "! "+format, args...)
}

func (o *Out) Fail(format string, args ...any) {
	o.Colorf(Red, "✗ "+format, args...)
}
