package driver

import (
	"fmt"
	"strconv"
	"strings"
)

// presetID parses and range-checks a raw preset argument.
func presetID(arg string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: preset id must be a non-negative integer, got %q", ErrInvalidArgument, arg)
	}
	if n > max {
		return 0, fmt.Errorf("%w: preset id %d out of range 0-%d", ErrInvalidArgument, n, max)
	}
	return n, nil
}

// cgiTally encodes the tally switch for the generic VISCA-over-CGI family
// (PTZOptics and compatibles). The query parameter name varies per vendor.
func cgiTally(param string) func(bool) string {
	return func(on bool) string {
		v := 0
		if on {
			v = 1
		}
		return fmt.Sprintf("/param.cgi?post_image_value&%s&%d", param, v)
	}
}

// cgiPreset encodes preset recall for the generic CGI family.
func cgiPreset(max int) func(string) (string, error) {
	return func(arg string) (string, error) {
		n, err := presetID(arg, max)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("/ptzctrl.cgi?ptzcmd&poscall&%d", n), nil
	}
}

// Panasonic AW series speaks the "#" command protocol on aw_ptz; the hash
// must travel percent-encoded. Presets are two digits, 00-99.
func panasonicPreset(arg string) (string, error) {
	n, err := presetID(arg, 99)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("?cmd=%%23R%02d&res=1", n), nil
}

func panasonicTally(on bool) string {
	v := 0
	if on {
		v = 1
	}
	return fmt.Sprintf("?cmd=%%23DA%d&res=1", v)
}

// Sony SRG series uses presetposition.cgi; the second value is recall speed.
func sonyPreset(arg string) (string, error) {
	n, err := presetID(arg, 100)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/presetposition.cgi?PresetCall=%d,24", n), nil
}

func init() {
	mustRegister(&Definition{
		Name:       "ptzoptics",
		HasTally:   true,
		APIURL:     "http://{ip}/cgi-bin",
		RTSPURLs:   []string{"rtsp://{ip}:554/1", "rtsp://{ip}:554/2"},
		TallyPath:  cgiTally("tally_mode"),
		PresetPath: cgiPreset(89),
	})
	mustRegister(&Definition{
		Name:       "avonic-cm70",
		HasTally:   true,
		APIURL:     "http://{ip}/cgi-bin",
		RTSPURLs:   []string{"rtsp://{ip}:554/live/0", "rtsp://{ip}:554/live/1"},
		TallyPath:  cgiTally("tally_light"),
		PresetPath: cgiPreset(254),
	})
	mustRegister(&Definition{
		Name:     "lumens-vc-a50",
		HasTally: false,
		APIURL:   "http://{ip}/cgi-bin",
		RTSPURLs: []string{"rtsp://{ip}:8557/h264"},
		// Lumens firmware answers a Digest attempt with a garbage
		// challenge instead of a clean 401, so probe Basic first.
		AuthOrder:  []AuthScheme{AuthBasic, AuthDigest},
		PresetPath: cgiPreset(127),
	})
	mustRegister(&Definition{
		Name:       "panasonic-aw-he40",
		HasTally:   true,
		APIURL:     "http://{ip}/cgi-bin/aw_ptz",
		RTSPURLs:   []string{"rtsp://{ip}/mediainput/h264/stream_1"},
		TallyPath:  panasonicTally,
		PresetPath: panasonicPreset,
	})
	mustRegister(&Definition{
		Name:     "sony-srg300",
		HasTally: false,
		APIURL:   "http://{ip}/command",
		// Streaming on the SRG is configured out of band; the control
		// API does not declare a stream endpoint.
		RTSPURLs:   nil,
		PresetPath: sonyPreset,
	})
}
