// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package flyer

// Level is the severity of a user notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient, non-blocking user notification.
type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier receives user notifications.
type Notifier interface {
	Notify(Notice)
}

// Notices records notifications in order. The zero value is ready to use.
type Notices []Notice

// Notify appends n.
func (ns *Notices) Notify(n Notice) {
	*ns = append(*ns, n)
}

// Count returns the number of notices at the given level.
func (ns Notices) Count(level Level) int {
	c := 0
	for _, n := range ns {
		if n.Level == level {
			c++
		}
	}
	return c
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notice) {}

// Info, Success and Failure build notices.
func Info(title, message string) Notice    { return Notice{LevelInfo, title, message} }
func Success(title, message string) Notice { return Notice{LevelSuccess, title, message} }
func Failure(title, message string) Notice { return Notice{LevelError, title, message} }
