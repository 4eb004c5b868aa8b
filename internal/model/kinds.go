package model

// DatabaseKind names a database technology in the pattern catalog.
type DatabaseKind string

const (
	DBMySQL         DatabaseKind = "MySQL"
	DBPostgreSQL    DatabaseKind = "PostgreSQL"
	DBSQLite        DatabaseKind = "SQLite"
	DBMongoDB       DatabaseKind = "MongoDB"
	DBOracle        DatabaseKind = "Oracle"
	DBSQLServer     DatabaseKind = "SQL Server"
	DBRedis         DatabaseKind = "Redis"
	DBFirestore     DatabaseKind = "Firestore/Firebase"
	DBDynamoDB      DatabaseKind = "DynamoDB"
	DBCassandra     DatabaseKind = "Cassandra"
	DBElasticsearch DatabaseKind = "Elasticsearch"
	DBNeo4j         DatabaseKind = "Neo4j"
	DBSnowflake     DatabaseKind = "Snowflake"
	DBBigQuery      DatabaseKind = "BigQuery"
	DBRedshift      DatabaseKind = "Redshift"
)

// APIKind names an integration or data-movement channel.
type APIKind string

const (
	APIRest         APIKind = "REST API"
	APIGraphQL      APIKind = "GraphQL"
	APIGRPC         APIKind = "gRPC"
	APIWebSocket    APIKind = "WebSocket"
	APIMessageQueue APIKind = "Message Queue"
	APIETL          APIKind = "ETL Process"
	APIFileSystem   APIKind = "File System"
	APICloudStorage APIKind = "Cloud Storage"
)

// FrameworkCategory groups frameworks for display.
type FrameworkCategory string

const (
	CategoryWeb         FrameworkCategory = "Web Framework"
	CategoryDataScience FrameworkCategory = "Data Science"
	CategoryMobile      FrameworkCategory = "Mobile"
	CategoryDevOps      FrameworkCategory = "DevOps"
)

// Framework names a library or platform within a category.
type Framework string

const (
	FrameworkDjango  Framework = "Django"
	FrameworkFlask   Framework = "Flask"
	FrameworkFastAPI Framework = "FastAPI"
	FrameworkExpress Framework = "Express"
	FrameworkReact   Framework = "React"
	FrameworkAngular Framework = "Angular"
	FrameworkVue     Framework = "Vue"
	FrameworkSpring  Framework = "Spring"
	FrameworkRails   Framework = "Rails"

	FrameworkPandas      Framework = "Pandas"
	FrameworkNumPy       Framework = "NumPy"
	FrameworkSciPy       Framework = "SciPy"
	FrameworkMatplotlib  Framework = "Matplotlib"
	FrameworkSeaborn     Framework = "Seaborn"
	FrameworkScikitLearn Framework = "Scikit-learn"
	FrameworkTensorFlow  Framework = "TensorFlow"
	FrameworkPyTorch     Framework = "PyTorch"
	FrameworkDask        Framework = "Dask"
	FrameworkSpark       Framework = "Spark"
	FrameworkReactNative Framework = "React Native"
	FrameworkFlutter     Framework = "Flutter"
	FrameworkAndroid     Framework = "Android"
	FrameworkIOS         Framework = "iOS"
	FrameworkDocker      Framework = "Docker"
	FrameworkKubernetes  Framework = "Kubernetes"
	FrameworkTerraform   Framework = "Terraform"
	FrameworkAnsible     Framework = "Ansible"
	FrameworkJenkins     Framework = "Jenkins"
)
