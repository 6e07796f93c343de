// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"fmt"

	"flyerly/internal/flyer"
	"flyerly/internal/ics"
	"flyerly/internal/slug"
)

// Calendar exports the event as an .ics file. The event must have a date.
func (x *Exporter) Calendar(s flyer.Snapshot, n flyer.Notifier) (Artifact, error) {
	if !s.Event.HasDate() {
		const msg = "Please set an event date before adding it to a calendar."
		notify(n, flyer.Failure("No Event Date", msg))
		return Artifact{}, flyer.Invalid("No Event Date", msg)
	}

	data, err := ics.Event(s.Event, ics.Options{Tagline: s.Tagline})
	if err != nil {
		notify(n, flyer.Failure("Calendar Export Failed", "Could not create the calendar file."))
		return Artifact{}, fmt.Errorf("compose calendar: %w", err)
	}

	filename := slug.WithExt(s.Event.Name, "ics")
	notify(n, flyer.Success("Calendar File Ready", "Your event has been downloaded as "+filename+"."))
	return Artifact{Filename: filename, ContentType: "text/calendar; charset=utf-8", Data: data}, nil
}
