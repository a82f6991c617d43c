package part

import "strings"

// RelsPathFor returns the `.rels` sidecar path for partPath, e.g.
// "xl/workbook.xml" -> "xl/_rels/workbook.xml.rels", and the package-level
// case "" -> "_rels/.rels".
func RelsPathFor(partPath string) string {
	if partPath == "" {
		return "_rels/.rels"
	}
	dir, name := splitPath(partPath)
	if dir == "" {
		return "_rels/" + name + ".rels"
	}
	return dir + "/_rels/" + name + ".rels"
}

// BaseDirFor returns the directory a relationships file's relative targets
// are resolved against: for "xl/_rels/workbook.xml.rels" that is "xl".
func BaseDirFor(relsPath string) string {
	dir := strings.TrimSuffix(relsPath, "")
	idx := strings.LastIndex(dir, "/_rels/")
	if idx < 0 {
		return ""
	}
	return dir[:idx]
}

// ResolveTarget applies OOXML's relationship-target path arithmetic: a
// target starting with "/" has the slash stripped and is returned as-is;
// otherwise it is resolved against baseDir.
func ResolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if baseDir == "" {
		return target
	}
	return baseDir + "/" + target
}

func splitPath(p string) (dir, name string) {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return "", p
	}
	return p[:idx], p[idx+1:]
}
