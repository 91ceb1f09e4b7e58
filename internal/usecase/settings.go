package usecase

// Setting keys for operator-editable prompt templates and defaults.
const (
	SettingAnalysisPrompt        = "analysis_prompt_template"
	SettingSkillExtractionPrompt = "skill_extraction_prompt"
	SettingCoverLetterPrompt     = "cl_prompt_template"
	SettingCVPrompt              = "cv_prompt_template"
	SettingDefaultProfileData    = "default_profile_data"
)

const analysisSystemPrompt = "You are a professional technical recruiter. Return ONLY raw JSON. No markdown."

const skillExtractionSystemPrompt = "You are a skill extraction tool. Return only the skills as a comma-separated list."

// defaultAnalysisPrompt is used when the setting row is absent.
const defaultAnalysisPrompt = "Analyze this job description carefully. \n\nJob Title: {position} \nPortal/Site: {company_name}\nDescription Content: {description}\nUser Skills: {user_skills}.\n\nTasks:\n1. Identify the ACTUAL EMPLOYER/COMPANY (often mentioned as 'Working at...', 'The Company...', or listed in the body text like 'dsb ccb solutions'). Ignore the portal name (e.g., Onlyfy, LinkedIn).\n2. Extract ALL required technical skills (Languages, Frameworks, Tools).\n3. Compare with User Skills and identify Matching and Missing skills.\n\nReturn ONLY a JSON object:\n{\n  \"match_score\": \"High|Medium|Low\",\n  \"highlights\": [\"Matching skills...\"],\n  \"missing_skills\": [\"Required skills not found in user profile...\"],\n  \"position\": \"Refined exact job title\",\n  \"company_name\": \"The actual employer name\",\n  \"exact_tech_stack\": [\"All tech mentioned in job\"]\n}"

const defaultSkillExtractionPrompt = "Extract a clean list of technical skills from this professional summary/experience: \n\n{experience}. \n\nExisting skills: {existing_skills}. \n\nReturn ONLY a comma-separated list of technical skills."
