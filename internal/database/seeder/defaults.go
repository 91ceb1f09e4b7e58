package seeder

func Defaults() []Seeder {
	return []Seeder{
		SkillVocabularySeeder{},
		SettingsSeeder{},
	}
}
