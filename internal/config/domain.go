package config

import (
	"trajdraw/internal/emit"
	"trajdraw/internal/field"
	"trajdraw/internal/trajectory"
)

// Speeds returns the robot tuning constants for the kinematics.
func (c *Config) Speeds() field.Speeds {
	return field.Speeds{
		Linear:         c.Robot.Speed,
		Angular:        c.Robot.TurnSpeed,
		PrecisionScale: c.Robot.PrecisionScale,
	}
}

// Geometry returns the configured field with its start pose.
func (c *Config) Geometry() field.Field {
	return field.Field{
		Size: c.FieldSize(),
		Origin: trajectory.Pose{
			X:       c.Field.StartX,
			Y:       c.Field.StartY,
			Heading: c.Field.StartH,
		},
	}
}

// Dialect returns the code emitter identifiers.
func (c *Config) Dialect() emit.Dialect {
	d := emit.DefaultDialect()
	if c.Export.DriveClass != "" {
		d.DriveClass = c.Export.DriveClass
	}
	if c.Export.DriveVar != "" {
		d.DriveVar = c.Export.DriveVar
	}
	if c.Export.SequenceVar != "" {
		d.SequenceVar = c.Export.SequenceVar
	}
	if c.Export.Indent != "" {
		d.Indent = c.Export.Indent
	}
	return d
}
