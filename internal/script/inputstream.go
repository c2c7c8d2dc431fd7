package script

import "fmt"

// inputstreamHelper заглушка inputstreamhelper.Helper: Widevine всегда считается установленным
type inputstreamHelper struct {
	protocol string
	drm      string
}

func (h inputstreamHelper) String() string {
	if h.drm == "" {
		return fmt.Sprintf("Helper(%s)", h.protocol)
	}
	return fmt.Sprintf("Helper(%s, %s)", h.protocol, h.drm)
}

func (s *session) inputstreamModule() Module {
	return Module{
		Name: "inputstreamhelper",
		Functions: map[string]Func{
			"Helper": func(a Args) (any, error) {
				helper := inputstreamHelper{protocol: a.String(0, ""), drm: a.String(1, "")}
				s.log.Debug("проверка inputstream", "protocol", helper.protocol, "drm", helper.drm)
				return &Object{
					Class: "Helper",
					Value: helper,
					Methods: map[string]Func{
						"check_inputstream": func(Args) (any, error) { return true, nil },
					},
				}, nil
			},
		},
	}
}
