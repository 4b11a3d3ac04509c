package app

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/softbody/internal/logger"
	"github.com/Faultbox/softbody/internal/scene"
	"github.com/Faultbox/softbody/pkg/xpbd"
)

// ObjectReport summarizes one object after a frame.
type ObjectReport struct {
	Name         string
	CenterOfMass mgl32.Vec3
	MinY         float32
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (o ObjectReport) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", o.Name)
	enc.AddFloat32("com_x", o.CenterOfMass.X())
	enc.AddFloat32("com_y", o.CenterOfMass.Y())
	enc.AddFloat32("com_z", o.CenterOfMass.Z())
	enc.AddFloat32("min_y", o.MinY)
	return nil
}

// FrameReport summarizes one simulated frame.
type FrameReport struct {
	Frame   int
	Stats   xpbd.Stats
	Objects []ObjectReport
}

// RunHeadless steps s for frames fixed steps of dt seconds and returns one
// report per frame. Static objects are reported too.
func RunHeadless(s *scene.Scene, frames int, dt float32) []FrameReport {
	log := logger.Named("headless")
	if s == nil || frames <= 0 {
		return nil
	}

	reports := make([]FrameReport, 0, frames)
	var total xpbd.Stats
	for f := range frames {
		st := s.Update(dt)
		total.Add(st)

		r := FrameReport{Frame: f, Stats: st, Objects: make([]ObjectReport, 0, len(s.Objects))}
		for _, o := range s.Objects {
			r.Objects = append(r.Objects, ObjectReport{
				Name:         o.Name,
				CenterOfMass: o.Body.CenterOfMass(),
				MinY:         o.Bounds().Min.Y(),
			})
		}
		reports = append(reports, r)

		if ce := log.Check(zap.DebugLevel, "frame"); ce != nil {
			ce.Write(zap.Int("frame", f), zap.Int("collisions", st.Collisions), zap.Objects("objects", r.Objects))
		}
	}

	last := reports[len(reports)-1]
	for _, o := range last.Objects {
		log.Info("final state",
			zap.String("object", o.Name),
			zap.Float32s("com", o.CenterOfMass[:]),
			zap.Float32("min_y", o.MinY),
		)
	}
	log.Info("headless run finished",
		zap.String("scene", s.Name),
		zap.Int("frames", frames),
		zap.Int("substeps", total.Substeps),
		zap.Int("collisions", total.Collisions),
		zap.Int("skipped", total.Skipped),
	)
	return reports
}
