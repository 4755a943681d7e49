package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top level of a project file.
type fileRoot struct {
	Project *projectBlock `hcl:"project,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

type projectBlock struct {
	Name        string         `hcl:"name,label"`
	URI         string         `hcl:"uri,optional"`
	Description string         `hcl:"description,optional"`
	Tags        []string       `hcl:"tags,optional"`
	RequiresWP  string         `hcl:"requires_wp,optional"`
	TestedWP    string         `hcl:"tested_wp,optional"`
	RequiresPHP string         `hcl:"requires_php,optional"`
	Version     string         `hcl:"version,optional"`
	License     string         `hcl:"license,optional"`
	LicenseURI  string         `hcl:"license_uri,optional"`
	TextDomain  string         `hcl:"text_domain,optional"`
	DevHost     string         `hcl:"dev_host,optional"`
	SassBinary  string         `hcl:"sass_binary,optional"`
	Precompress bool           `hcl:"precompress,optional"`
	Author      *authorBlock   `hcl:"author,block"`
	Dirs        *dirsBlock     `hcl:"dirs,block"`
	Archives    *archivesBlock `hcl:"archives,block"`
}

type authorBlock struct {
	Name string `hcl:"name,optional"`
	URI  string `hcl:"uri,optional"`
}

type dirsBlock struct {
	Src    string `hcl:"src,optional"`
	Static string `hcl:"static,optional"`
	WP     string `hcl:"wp,optional"`
}

type archivesBlock struct {
	WordPress string `hcl:"wordpress,optional"`
	Theme     string `hcl:"theme,optional"`
}
