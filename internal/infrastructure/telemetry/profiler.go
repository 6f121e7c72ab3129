package telemetry

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// contentionRate is the sampling rate applied to mutex and block profiles
const contentionRate = 5

// ProfilerConfig points the Pyroscope agent at a server. Span-to-profile
// links come from the tracer provider, see TracerProvider.EnableSpanProfiles.
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	// Contention adds mutex and block profiles, which slow the runtime down
	Contention bool
	Tags       map[string]string
}

// Profiler wraps a running agent; the zero value is a disabled profiler
type Profiler struct {
	agent  *pyroscope.Profiler
	logger *zap.Logger
	once   sync.Once
}

func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" || cfg.ApplicationName == "" {
		return nil, errors.New("profiling needs both a server address and an application name")
	}

	if cfg.Contention {
		runtime.SetMutexProfileFraction(contentionRate)
		runtime.SetBlockProfileRate(contentionRate)
	}

	agent, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            pyroscopeLogger{logger.Sugar()},
		Tags:              profileTags(cfg.Tags),
		ProfileTypes:      profileTypes(cfg.Contention),
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope agent: %w", err)
	}
	p.agent = agent

	logger.Info("Continuous profiling enabled",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
		zap.Bool("contention", cfg.Contention),
	)
	return p, nil
}

func profileTags(extra map[string]string) map[string]string {
	tags := make(map[string]string, len(extra)+1)
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}
	for k, v := range extra {
		tags[k] = v
	}
	return tags
}

func profileTypes(contention bool) []pyroscope.ProfileType {
	types := []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocObjects,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseObjects,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}
	if contention {
		types = append(types,
			pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration,
		)
	}
	return types
}

func (p *Profiler) IsEnabled() bool { return p != nil && p.agent != nil }

// Stop flushes the last profiles; later calls do nothing
func (p *Profiler) Stop() error {
	if !p.IsEnabled() {
		return nil
	}
	var err error
	p.once.Do(func() {
		if err = p.agent.Stop(); err != nil {
			err = fmt.Errorf("stop pyroscope agent: %w", err)
			return
		}
		p.logger.Info("Continuous profiling stopped")
	})
	return err
}

// pyroscopeLogger routes agent chatter to zap; its info lines are demoted to debug
type pyroscopeLogger struct {
	s *zap.SugaredLogger
}

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
