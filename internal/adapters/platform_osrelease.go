package adapters

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"forkerator/internal/ports"
	"forkerator/internal/types"
)

const defaultOSReleasePath = "/etc/os-release"

var debianFamily = map[string]struct{}{
	"debian":    {},
	"ubuntu":    {},
	"linuxmint": {},
	"pop":       {},
	"raspbian":  {},
}

var redhatFamily = map[string]struct{}{
	"centos":    {},
	"rhel":      {},
	"fedora":    {},
	"rocky":     {},
	"almalinux": {},
	"ol":        {},
	"amzn":      {},
}

// PlatformAdapter identifies the host distribution from os-release.
// Override, when set, forces the distribution family.
type PlatformAdapter struct {
	OSReleasePath string
	GOOS          string
	Override      types.Distribution
}

func NewPlatformAdapter(override types.Distribution) PlatformAdapter {
	return PlatformAdapter{
		OSReleasePath: defaultOSReleasePath,
		GOOS:          runtime.GOOS,
		Override:      override,
	}
}

func (a PlatformAdapter) Detect() (types.Platform, error) {
	if a.GOOS != "linux" {
		return types.Platform{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("unsupported system: %s", a.GOOS))
	}
	platform := types.Platform{System: a.GOOS}
	release, err := readOSRelease(a.OSReleasePath)
	if err != nil && a.Override == types.DistributionUnknown {
		return types.Platform{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("unable to identify linux distribution").
			WithCause(err)
	}
	platform.Name = release["ID"]
	platform.Version = release["VERSION_ID"]
	if a.Override != types.DistributionUnknown {
		if !a.Override.Supported() {
			return types.Platform{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported distribution override: %s", a.Override))
		}
		platform.Distribution = a.Override
		if platform.Name == "" {
			platform.Name = string(a.Override)
		}
		return platform, nil
	}
	platform.Distribution = classifyDistribution(release["ID"], release["ID_LIKE"])
	if platform.Distribution == types.DistributionUnknown {
		return types.Platform{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("unsupported distribution: %s", platform.Name))
	}
	log.Debug().
		Str("name", platform.Name).
		Str("version", platform.Version).
		Str("distribution", string(platform.Distribution)).
		Msg("platform detected")
	return platform, nil
}

func classifyDistribution(id string, idLike string) types.Distribution {
	candidates := append([]string{id}, strings.Fields(idLike)...)
	for _, candidate := range candidates {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if _, ok := debianFamily[candidate]; ok {
			return types.DistributionDebian
		}
		if _, ok := redhatFamily[candidate]; ok {
			return types.DistributionRedHat
		}
	}
	return types.DistributionUnknown
}

func readOSRelease(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return map[string]string{}, err
	}
	defer file.Close()

	values := map[string]string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		values[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	if err := scanner.Err(); err != nil {
		return map[string]string{}, err
	}
	return values, nil
}

var _ ports.PlatformPort = PlatformAdapter{}
