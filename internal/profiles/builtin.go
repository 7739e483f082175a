package profiles

import (
	"github.com/jonathan/resume-extract/internal/extract"
	"github.com/jonathan/resume-extract/internal/segment"
	"github.com/jonathan/resume-extract/internal/textutil"
	"github.com/jonathan/resume-extract/internal/types"
)

// Profile IDs
const (
	GeneralID   = "general"
	CompactID   = "compact"
	StudentID   = "student"
	TechnicalID = "technical"
)

var general = Profile{
	ID:          GeneralID,
	DisplayName: "General",
	Description: "Broad header vocabulary for conventional multi-page resumes",
	Headers: segment.HeaderTable{
		types.SectionSummary:        {"summary", "professional summary", "career summary", "profile", "objective", "about me"},
		types.SectionExperience:     {"experience", "work experience", "professional experience", "employment history", "employment", "work history", "career history"},
		types.SectionEducation:      {"education", "academic background", "education and training"},
		types.SectionSkills:         {"skills", "technical skills", "core competencies", "competencies", "expertise"},
		types.SectionProjects:       {"projects", "personal projects", "key projects"},
		types.SectionCertifications: {"certifications", "certificates", "licenses and certifications", "licenses"},
		types.SectionLanguages:      {"languages"},
		types.SectionHonors:         {"honors and awards", "honors", "awards", "achievements"},
		types.SectionReferences:     {"references"},
	},
	Policy:          segment.Policy{ResetOnEmbeddedHeader: true},
	BasicInfoWindow: 15,
	Experience: extract.ExperienceRules{
		Roles:           textutil.RoleKeywords,
		Companies:       textutil.CompanyCueKeywords,
		MaxHeadingWords: 10,
	},
	Education: extract.EducationRules{
		Degrees:         textutil.DegreeKeywords,
		Institutions:    textutil.InstitutionKeywords,
		MaxHeadingWords: 12,
	},
	Projects:   extract.ProjectRules{MaxHeadingWords: 8},
	Honors:     extract.HonorRules{Awards: textutil.HonorKeywords, MaxHeadingWords: 10},
	Skills:     extract.SkillRules{Dedupe: true},
	Languages:  extract.SkillRules{Dedupe: true},
	FieldNames: extract.CanonicalFieldNames,
}

var compact = Profile{
	ID:          CompactID,
	DisplayName: "Compact",
	Description: "Dense one-page layouts with all-caps headers and short entries",
	Headers: segment.HeaderTable{
		types.SectionSummary:        {"summary", "profile"},
		types.SectionExperience:     {"experience", "work experience"},
		types.SectionEducation:      {"education"},
		types.SectionSkills:         {"skills"},
		types.SectionProjects:       {"projects"},
		types.SectionCertifications: {"certifications"},
		types.SectionLanguages:      {"languages"},
		types.SectionHonors:         {"awards", "honors"},
		types.SectionReferences:     {"references"},
	},
	Policy: segment.Policy{
		ResetOnEmbeddedHeader: true,
		AllCapsTerminatorLen:  10,
	},
	BasicInfoWindow: 10,
	Experience: extract.ExperienceRules{
		Roles:             textutil.RoleKeywords,
		Companies:         textutil.CompanyCueKeywords,
		MaxHeadingWords:   8,
		TitleCaseBoundary: true,
	},
	Education: extract.EducationRules{
		Degrees:         textutil.DegreeKeywords,
		Institutions:    textutil.InstitutionKeywords,
		MaxHeadingWords: 10,
	},
	Projects:  extract.ProjectRules{MaxHeadingWords: 6},
	Honors:    extract.HonorRules{Awards: textutil.HonorKeywords, MaxHeadingWords: 8},
	Skills:    extract.SkillRules{StripCategories: true},
	Languages: extract.SkillRules{},
	FieldNames: extract.FieldNames{
		ExperienceTitle: "title",
		ExperienceText:  "description",
	},
}

var student = Profile{
	ID:          StudentID,
	DisplayName: "Student",
	Description: "Education-first resumes with coursework, projects, internships and honors",
	Headers: segment.HeaderTable{
		types.SectionSummary:        {"objective", "career objective", "summary", "profile"},
		types.SectionExperience:     {"experience", "work experience", "relevant experience", "internships", "internship experience", "leadership experience", "employment"},
		types.SectionEducation:      {"education", "academic background", "relevant coursework", "coursework"},
		types.SectionSkills:         {"skills", "technical skills", "relevant skills"},
		types.SectionProjects:       {"projects", "academic projects", "course projects", "personal projects"},
		types.SectionCertifications: {"certifications", "certificates"},
		types.SectionLanguages:      {"languages"},
		types.SectionHonors:         {"honors and awards", "honors", "awards", "achievements", "scholarships", "activities"},
		types.SectionReferences:     {"references"},
	},
	Policy:                segment.Policy{ResetOnEmbeddedHeader: true, MaxHeaderLength: 40},
	BasicInfoWindow:       12,
	StopBasicInfoAtHeader: true,
	Experience: extract.ExperienceRules{
		Roles: withWords(textutil.RoleKeywords,
			"tutor", "volunteer", "teaching assistant", "research assistant", "ta", "member",
			"treasurer", "secretary", "captain", "mentor"),
		Companies:       textutil.CompanyCueKeywords,
		MaxHeadingWords: 10,
	},
	Education: extract.EducationRules{
		Degrees:         withWords(textutil.DegreeKeywords, "minor", "major", "exchange program", "study abroad"),
		Institutions:    textutil.InstitutionKeywords,
		MaxHeadingWords: 12,
	},
	Projects: extract.ProjectRules{MaxHeadingWords: 8, LinkBoundary: true},
	Honors: extract.HonorRules{
		Awards:          withWords(textutil.HonorKeywords, "grant", "competition", "hackathon", "olympiad"),
		MaxHeadingWords: 10,
	},
	Skills:    extract.SkillRules{StripCategories: true, Dedupe: true},
	Languages: extract.SkillRules{Dedupe: true},
	FieldNames: extract.FieldNames{
		ExperienceTitle: "position",
		ExperienceText:  "description",
	},
}

var technical = Profile{
	ID:          TechnicalID,
	DisplayName: "Technical",
	Description: "Engineering resumes with categorized skills and linked projects",
	Headers: segment.HeaderTable{
		types.SectionSummary:        {"summary", "profile", "about"},
		types.SectionExperience:     {"experience", "professional experience", "work experience", "engineering experience", "employment", "work history"},
		types.SectionEducation:      {"education"},
		types.SectionSkills:         {"technical skills", "skills", "tech stack", "technologies", "tools", "programming languages", "skills and tools"},
		types.SectionProjects:       {"projects", "side projects", "selected projects", "personal projects", "open source", "open source contributions"},
		types.SectionCertifications: {"certifications", "certificates"},
		types.SectionLanguages:      {"spoken languages", "languages"},
		types.SectionHonors:         {"awards", "honors", "achievements"},
		types.SectionReferences:     {"references"},
	},
	Policy:                segment.Policy{BareHeadersOnly: true, MaxHeaderLength: 40},
	BasicInfoWindow:       13,
	StopBasicInfoAtHeader: true,
	Experience: extract.ExperienceRules{
		Roles:           withWords(textutil.RoleKeywords, "sre", "devops", "swe", "sde", "cto", "staff", "principal"),
		Companies:       textutil.CompanyCueKeywords,
		MaxHeadingWords: 12,
	},
	Education: extract.EducationRules{
		Degrees:         textutil.DegreeKeywords,
		Institutions:    textutil.InstitutionKeywords,
		MaxHeadingWords: 12,
	},
	Projects:  extract.ProjectRules{MaxHeadingWords: 10, LinkBoundary: true},
	Honors:    extract.HonorRules{Awards: textutil.HonorKeywords, MaxHeadingWords: 10},
	Skills:    extract.SkillRules{StripCategories: true, Dedupe: true},
	Languages: extract.SkillRules{StripCategories: true, Dedupe: true},
	FieldNames: extract.FieldNames{
		ExperienceTitle: "title",
		ExperienceText:  "responsibilities",
	},
}

// withWords returns a keyword set holding base's words plus extra
func withWords(base textutil.KeywordSet, extra ...string) textutil.KeywordSet {
	words := make([]string, 0, len(base.Words())+len(extra))
	words = append(words, base.Words()...)
	words = append(words, extra...)
	return textutil.NewKeywordSet(words...)
}
