// Package frames samples representative still frames from uploaded videos.
//
// The Sampler spreads sample points across the middle 80% of the video
// timeline, decodes one frame per point, and re-encodes each frame to a
// fixed JPEG canvas carried inline as a base64 data URI. Frame decoding is
// delegated to a Decoder so tests can substitute synthetic sources; the
// production decoder shells out to ffmpeg.
//
// Sampling failures are deliberately soft: a video that cannot be probed or
// decoded yields an empty snapshot set rather than failing the pipeline.
package frames
