package resolve

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Conventional document library display names. SharePoint names the default
// library "Documents" and the web UI shows it as "Shared Documents".
var libraryRootNames = []string{"Shared Documents", "Documents"}

// sitePathCandidates expands a user-supplied site path into the lookup
// candidates tried in order. Users paste several shapes: server-relative
// ("/sites/MySite"), relative ("sites/MySite"), or just the site name
// ("MySite"). A bare name is tried under sites/ and teams/ before as-is.
func sitePathCandidates(sitePath string) []string {
	p := strings.TrimSpace(sitePath)
	p = strings.TrimLeft(p, "/")

	if strings.Contains(p, "/") {
		return []string{p}
	}

	return []string{"sites/" + p, "teams/" + p, p}
}

// normalizeDirectoryPath prepares a configured directory path for the
// path-based item lookup: Unicode NFC (SharePoint stores NFC; pasted paths
// from macOS are often NFD), slash trimming, and removal of a redundant
// document library prefix. The prefix is a copy-paste artifact from the web
// UI — once the library's drive is resolved, the lookup path is relative to
// the drive root. The prefix is stripped exactly once; the selected drive's
// display name is preferred over the conventional names.
func normalizeDirectoryPath(dirPath, driveName string) string {
	p := norm.NFC.String(strings.TrimSpace(dirPath))
	p = strings.Trim(p, "/")

	prefixes := make([]string, 0, len(libraryRootNames)+1)
	if driveName != "" {
		prefixes = append(prefixes, driveName)
	}

	for _, name := range libraryRootNames {
		if name != driveName {
			prefixes = append(prefixes, name)
		}
	}

	for _, prefix := range prefixes {
		if p == prefix {
			return ""
		}

		if rest, ok := strings.CutPrefix(p, prefix+"/"); ok {
			return rest
		}
	}

	return p
}

// itemLookupPath joins the normalized directory path and file name into the
// drive-relative lookup path.
func itemLookupPath(dirPath, driveName, fileName string) string {
	dir := normalizeDirectoryPath(dirPath, driveName)
	file := norm.NFC.String(strings.TrimSpace(fileName))

	if dir == "" {
		return file
	}

	return dir + "/" + file
}
