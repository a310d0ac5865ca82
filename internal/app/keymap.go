package app

// Key binding constants used in handleKey and handleFormKey.
const (
	KeyQuit          = "q"
	KeyQuitUpper     = "Q"
	KeyCtrlC         = "ctrl+c"
	KeySpace         = " "
	KeyTab           = "tab"
	KeyShiftTab      = "shift+tab"
	KeyUp            = "up"
	KeyDown          = "down"
	KeyJ             = "j"
	KeyK             = "k"
	KeyEnter         = "enter"
	KeyEsc           = "esc"
	KeyEdit          = "e"
	KeyToggleContext = "c"
)
