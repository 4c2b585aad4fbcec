package config

const (
	defaultUploadDir            = "~/.local/share/coursegen/uploads"
	defaultStaticDir            = "~/.local/share/coursegen/static"
	defaultStateDir             = "~/.local/share/coursegen/state"
	defaultLogDir               = "~/.local/share/coursegen/logs"
	defaultAPIBind              = "127.0.0.1:8000"
	defaultOpenAIBaseURL        = "https://api.openai.com/v1"
	defaultTranscribeModel      = "whisper-1"
	defaultCourseModel          = "gpt-4"
	defaultOpenAITimeoutSeconds = 120
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultSnapshotWidth        = 800
	defaultSnapshotHeight       = 600
	defaultSnapshotJPEGQuality  = 80
	defaultConciseSnapshots     = 10
	defaultFullSnapshots        = 15
	defaultWorkers              = 4
	defaultQueuePollInterval    = 2
	defaultErrorRetryInterval   = 5
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir: defaultUploadDir,
			StaticDir: defaultStaticDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		OpenAI: OpenAI{
			BaseURL:         defaultOpenAIBaseURL,
			TranscribeModel: defaultTranscribeModel,
			CourseModel:     defaultCourseModel,
			TimeoutSeconds:  defaultOpenAITimeoutSeconds,
		},
		Media: Media{
			FFmpegBinary:         defaultFFmpegBinary,
			FFprobeBinary:        defaultFFprobeBinary,
			SnapshotWidth:        defaultSnapshotWidth,
			SnapshotHeight:       defaultSnapshotHeight,
			SnapshotJPEGQuality:  defaultSnapshotJPEGQuality,
			ConciseSnapshotCount: defaultConciseSnapshots,
			FullSnapshotCount:    defaultFullSnapshots,
		},
		Workflow: Workflow{
			Workers:            defaultWorkers,
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			LogFormat: defaultLogFormat,
			LogLevel:  defaultLogLevel,
		},
	}
}
