package registry

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// UnknownSource is returned for filenames that have no registered URL.
const UnknownSource = "Unknown Source"

// Registry maps locally stored PDF filenames to externally resolvable
// source URLs, for user-facing citation. It is loaded once at startup and
// read-only afterwards.
type Registry struct {
	urls map[string]string
}

// Load builds a Registry from the TOML file at path ([documents] table of
// filename = "url" pairs). An empty path yields the built-in default table.
func Load(path string) (*Registry, error) {
	if path == "" {
		return &Registry{urls: defaultURLMap()}, nil
	}

	var file struct {
		Documents map[string]string `toml:"documents"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode registry file failed: %w", err)
	}
	if len(file.Documents) == 0 {
		return nil, fmt.Errorf("registry file %s has no [documents] entries", path)
	}
	return &Registry{urls: file.Documents}, nil
}

// MustLoad is Load for process start; it exits on a broken registry file.
func MustLoad(path string) *Registry {
	r, err := Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load document registry failed: %v\n", err)
		os.Exit(1)
	}
	return r
}

// Lookup resolves a filename to its source URL. Unknown filenames degrade
// to UnknownSource, never an error.
func (r *Registry) Lookup(filename string) string {
	if url, ok := r.urls[filename]; ok {
		return url
	}
	return UnknownSource
}

// Len reports the number of registered documents.
func (r *Registry) Len() int {
	return len(r.urls)
}

func defaultURLMap() map[string]string {
	return map[string]string{
		"TIP-Report-2024_Introduction_V10_508-accessible_2.13.2025.pdf":                        "https://www.state.gov/reports/2024-trafficking-in-persons-report",
		"Polaris-Analysis-of-2021-Data-from-the-National-Human-Trafficking-Hotline.pdf":        "https://polarisproject.org/wp-content/uploads/2020/07/Polaris-Analysis-of-2021-Data-from-the-National-Human-Trafficking-Hotline.pdf",
		"In-Harms-Way-How-Systems-Fail-Human-Trafficking-Survivors-by-Polaris-modifed-June-2023.pdf": "https://polarisproject.org/resources/in-harms-way-how-systems-fail-human-trafficking-survivors/",
		"Hotline-Trends-Report-2023.pdf":                                                       "https://polarisproject.org/wp-content/uploads/2020/07/Hotline-Trends-Report-2023.pdf",
		"GLOTIP2024_Chapter_1.pdf":                                                             "https://www.unodc.org/unodc/en/data-and-analysis/glotip.html",
		"GLOTIP2024_Chapter_2.pdf":                                                             "https://www.unodc.org/unodc/en/data-and-analysis/glotip.html",
		"GLOTIP2024_Chapter_3.pdf":                                                             "https://www.unodc.org/unodc/en/data-and-analysis/glotip.html",
		"Polaris-Typology-of-Modern-Slavery-1.pdf":                                             "https://polarisproject.org/wp-content/uploads/2019/09/Polaris-Typology-of-Modern-Slavery-1.pdf",
		"Parent Resource Guide_FINAL_update 2021.pdf":                                          "https://ctip.defense.gov/Portals/12/Parent%20Resource%20Guide_FINAL_update%202025.pdf",
		"RESOURCE-GUIDE-ONLINE-SAFETY-GROOMING-&-SEXTORTION.pdf":                               "https://www.eyesupappalachia.org/_files/ugd/14b638_bf90969f778f42318734e03df56bd448.pdf",
		"HUMAN TRAFFICKING RESPONSE GUIDE for School Resource Officers.pdf":                    "https://www.dhs.gov/sites/default/files/2024-06/240624_bc_human_trafficking_response_guide_school_resource_officers.pdf",
		"HUMAN TRAFFICKING AWARENESS GUIDE for Convenience Retail Employees.pdf":               "https://www.dhs.gov/sites/default/files/2024-06/240624_bc_convenience_store_guide.pdf",
		"HOW TO TALK TO YOUTH ABOUT HUMAN TRAFFICKING A Guide for Youth Caretakers and Individuals Working with Youth.pdf": "https://www.dhs.gov/sites/default/files/publications/blue_campaign_youth_guide_508_1.pdf",
		"FIU-Peer-to-Peer-Platforms-Case-Study.pdf":                                            "https://polarisproject.org/wp-content/uploads/2024/05/FIU-Peer-to-Peer-Platforms-Case-Study.pdf",
		"Combating Child Sex Trafficking a Guide for Law Enforcement.pdf":                      "https://www.theiacp.org/sites/default/files/IACPCOPSCombatingChildSexTraffickingAGuideforLELeaders.pdf",
		"CaseStudies-voi.pdf":                                                                  "https://sharedhope.org/wp-content/uploads/2020/10/CaseStudies-voi.pdf",
		"2023-Federal-Human-Trafficking-Report-WEB-Spreads-LR.pdf":                             "https://traffickinginstitute.org/wp-content/uploads/2024/06/2023-Federal-Human-Trafficking-Report-WEB-Spreads-LR.pdf",
		"2017_April_AZ_SexTraffickingResearch.pdf":                                             "https://ag.nv.gov/uploadedFiles/agnvgov/Content/Human_Trafficking/2017_April_AZ_SexTraffickingResearch.pdf",
	}
}
