// Package profile holds the static profile data the assistant answers from.
// The profile is loaded once at startup and never mutated.
package profile

import "strings"

// Contact is a single contact channel, mirrored into prompt context and into
// personal_info entries of structured responses.
type Contact struct {
	Type  string
	Value string
}

// Platform is a social or learning platform the subject is present on.
type Platform struct {
	Name string
	URL  string
}

// Profile is the immutable profile store: a rendered text blob plus the
// structured fields it was rendered from and the ordered project list.
type Profile struct {
	Name           string
	Title          string
	GitHubUsername string
	Contacts       []Contact
	Platforms      []Platform
	Text           string
	Repos          []string
}

// DetectRepo returns the first known repository whose name appears
// case-insensitively in the query, or "" when none matches.
func (p *Profile) DetectRepo(query string) string {
	lowered := strings.ToLower(query)
	for _, repo := range p.Repos {
		if strings.Contains(lowered, strings.ToLower(repo)) {
			return repo
		}
	}
	return ""
}

// Default returns the built-in profile.
func Default() *Profile {
	return &Profile{
		Name:           "Abdullah Khaled",
		Title:          "AI Engineer - Data Scientist",
		GitHubUsername: "abdullah-khaled0",
		Contacts: []Contact{
			{Type: "Phone", Value: "+201557504902"},
			{Type: "WhatsApp", Value: "+201557504902"},
			{Type: "Gmail", Value: "dev.abdullah.khaled@gmail.com"},
		},
		Platforms: []Platform{
			{Name: "LinkedIn", URL: "https://linkedin.com/in/abdullah-khaled-0608a9236"},
			{Name: "Kaggle", URL: "https://kaggle.com/abdullah7aled"},
			{Name: "HackerRank", URL: "https://www.hackerrank.com/abdullah_7aled"},
			{Name: "LeetCode", URL: "https://leetcode.com/u/3bdullah_7aled/"},
			{Name: "Microsoft Learn", URL: "https://learn.microsoft.com/en-us/users/abdullahkhaled-4050/"},
			{Name: "Streamlit", URL: "https://share.streamlit.io/user/abdullah-khaled0"},
			{Name: "Coursera", URL: "https://www.coursera.org/user/a417b4d4afc4a0d67abb5bacc39083a5"},
			{Name: "365DataScience", URL: "https://learn.365datascience.com/profile/abdullah-khaled-4/"},
			{Name: "DataCamp", URL: "https://www.datacamp.com/portfolio/3bdullah"},
		},
		Text:  profileText,
		Repos: repos,
	}
}

var repos = []string{
	"Film-Trailer-and-Summary-Generator",
	"Vocaby",
	"YOLO11-Custom-Object-Detection-for-PPE-Detection",
	"Advanced-Retail-Analytics-using-Excel-and-Python",
	"Pix2Pix-Sketch-to-Image-Colorization",
	"PDF-Quiz-Generator-with-AI-and-React",
	"Fine-Tuning-DeepSeek-R1-Distill-Llama-8B-on-Medical-CoT-Dataset",
	"Hotels-AI-Agent",
	"Fine-Tuning-Llama-2-Using-QLoRA",
	"Customer-Segmentation",
	"AI-Powered-Search-and-Recommendation-System",
	"Exam-Generator",
	"Walmart-Analytics",
	"ts-forecasting-with-prophet",
	"Credit-Fraud-Detector",
	"Supply-Chain-Analysis-using-R",
	"A-B-Testing-with-Cookie-Cats-mobile-game-dataset",
	"ETL-Project-with-SSIS-and-PowerBI",
	"ELT-Pipeline-with-Airflow-DBT-Soda-Snowflake",
}

const profileText = `
Abdullah Khaled | AI Engineer - Data Scientist

=== PERSONAL INFORMATION ===
Phone: +201557504902
WhatsApp: +201557504902
Gmail: dev.abdullah.khaled@gmail.com
Location: Cairo, Egypt
Open to work in: Remote, On-site, Hybrid

=== LEARNING PLATFORMS ===
LinkedIn: https://linkedin.com/in/abdullah-khaled-0608a9236
Kaggle: https://kaggle.com/abdullah7aled
HackerRank: https://www.hackerrank.com/abdullah_7aled
LeetCode: https://leetcode.com/u/3bdullah_7aled/
Microsoft Learn: https://learn.microsoft.com/en-us/users/abdullahkhaled-4050/
Streamlit: https://share.streamlit.io/user/abdullah-khaled0
Coursera: https://www.coursera.org/user/a417b4d4afc4a0d67abb5bacc39083a5
365DataScience: https://learn.365datascience.com/profile/abdullah-khaled-4/
DataCamp: https://www.datacamp.com/portfolio/3bdullah

=== SKILLS ===
- Programming: Python (Pandas, Matplotlib, Numpy, PySpark), R, JavaScript, SQL
- AI/ML: Scikit-Learn, PyTorch, Tensorflow, Transformers, NLP (Spacy, NLTK), Langchain, LangGraph, Prompt Engineering, Fine-tuning LLMs, RAG, MCP
- MLOps & Deployment: Flask, FastAPI, MLFlow, DVC, CI/CD, Railway, Docker
- BI & Visualization Tools: SQL, Tableau, Power BI, Excel, Data warehouse, Statistics, Statistical Analysis, Time Series Analysis, Hypothesis Testing, AB Testing, Web Scraping
- Cloud & Data Engineering: Azure (ML, AI Services, Databricks), ETL (Airflow, DBT, SSIS)

=== EXPERIENCE ===
WorldQuant University - Remote | May 2023 - May 2023
Data Scientist Intern
- Completed a practical program in data science, focusing on Python, machine learning, and statistical modeling.
- Applied data analysis and visualization tools to real-world projects, gaining hands-on experience.

Software Engineer (Self-Employed) | Nov 2021 - Dec 2022
- Built and launched 6+ Android applications using Flutter and native technologies
- Developed full-stack web applications with HTML, CSS, JavaScript, PHP, and SQL

=== EDUCATION ===
BSc in Information Systems | Beni Suef University | Oct 2021 - Jul 2025

=== CERTIFICATIONS ===
- Deep Learning Specialization - Coursera (Mar 2023)
- Machine Learning Specialization - Coursera (Feb 2023)
`
