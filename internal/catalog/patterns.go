package catalog

import "lineage-scan/internal/model"

// Databases is ordered by display precedence.
var Databases = []DatabaseEntry{
	{model.DBMySQL, compile(`mysql\.connector`, `pymysql`, `MySQLdb`, `jdbc:mysql`,
		`createConnection\s*\(\s*['"]mysql`, `mysql\s*://`, `new\s+MySQL`)},
	{model.DBPostgreSQL, compile(`psycopg2`, `pg8000`, `postgresql://`, `postgres://`, `jdbc:postgresql`,
		`new\s+PostgreSQL`, `Pool\s*\(\s*['"]postgres`)},
	{model.DBSQLite, compile(`sqlite3`, `\.db`, `\.sqlite`, `jdbc:sqlite`, `createConnection\s*\(\s*['"]sqlite`)},
	{model.DBMongoDB, compile(`pymongo`, `mongodb://`, `MongoClient`, `mongoose`, `mongodb\+srv`,
		`new\s+Mongo`, `connect\s*\(\s*['"]mongodb`)},
	{model.DBOracle, compile(`cx_Oracle`, `oracle`, `jdbc:oracle`, `oracledb`, `OracleConnection`)},
	{model.DBSQLServer, compile(`pyodbc`, `sqlserver`, `mssql`, `jdbc:sqlserver`, `new\s+SqlConnection`,
		`data source=.*server`, `Server=.*Database`, `Data Source=.*Initial Catalog`)},
	{model.DBRedis, compile(`redis`, `Redis\(`, `createClient\s*\(\s*['"]redis`, `redis://`)},
	{model.DBFirestore, compile(`firebase`, `firestore`, `initializeApp`, `FirebaseFirestore`,
		`collection\s*\(`, `getFirestore`)},
	{model.DBDynamoDB, compile(`dynamodb`, `DynamoDBClient`, `DocumentClient`, `new\s+AWS\.DynamoDB`)},
	{model.DBCassandra, compile(`cassandra`, `datastax`, `Cluster\s*\(`, `cqlengine`,
		`cassandra-driver`, `CassandraClient`)},
	{model.DBElasticsearch, compile(`elasticsearch`, `elastic`, `Elasticsearch\s*\(`, `createClient\s*\(\s*\{\s*node`)},
	{model.DBNeo4j, compile(`neo4j`, `GraphDatabase`, `bolt://`, `neo4j://`, `Driver\s*\(`)},
	{model.DBSnowflake, compile(`snowflake`, `SnowflakeConnection`, `snowflake-connector`, `snowflake://`)},
	{model.DBBigQuery, compile(`bigquery`, `google\.cloud\.bigquery`, `bigquery\.Client`)},
	{model.DBRedshift, compile(`redshift`, `redshift_connector`, `jdbc:redshift`, `redshift://`)},
}

// APIs is ordered by display precedence.
var APIs = []APIEntry{
	{model.APIRest, compile(`\.get\(\s*['"]https?://`, `\.post\(\s*['"]https?://`, `fetch\(\s*['"]https?://`,
		`axios`, `requests\.`, `http\.`, `HttpClient`, `new\s+Http`, `new\s+XMLHttpRequest`,
		`RestTemplate`, `WebClient`, `OkHttp`, `Retrofit`)},
	{model.APIGraphQL, compile(`graphql`, `ApolloClient`, "gql\\s*`", `useQuery`, `useMutation`,
		`GraphQLClient`, `execute\s*\(\s*[\w\s]*\{`, `execute\s*\(\s*gql`)},
	{model.APIGRPC, compile(`grpc`, `protobuf`, `ServiceClient`, `createClient\s*\(\s*['"]grpc`,
		`\.proto`, `ServerBuilder`)},
	{model.APIWebSocket, compile(`websocket`, `new\s+WebSocket`, `\.on\(\s*['"]message`, `\.on\(\s*['"]open`,
		`socket\.io`, `socketio`, `ws://`, `wss://`)},
	{model.APIMessageQueue, compile(`rabbitmq`, `kafka`, `activemq`, `pubsub`, `SQS`, `kinesis`,
		`EventHub`, `ServiceBus`, `JMS`, `MQTT`, `Producer`, `Consumer`,
		`publish\s*\(`, `subscribe\s*\(`, `amqp`, `message_broker`)},
	{model.APIETL, compile(`airflow`, `luigi`, `nifi`, `talend`, `informatica`, `pentaho`,
		`spark`, `databricks`, `dbt`, `extract_transform_load`,
		`etl`, `data\s+pipeline`, `pipeline`)},
	{model.APIFileSystem, compile(`open\s*\(\s*['"][^'"]+\.`, `readFile`, `writeFile`, `readdir`,
		`fs\.`, `filesystem`, `storage\.`, `blob`, `S3`, `uploadFile`,
		`downloadFile`, `copyFile`)},
	{model.APICloudStorage, compile(`S3`, `Blob`, `GCS`, `Azure\s*Storage`, `StorageClient`, `CloudStorage`,
		`uploadToS3`, `downloadFromS3`, `bucket`, `container\.`, `putObject`,
		`getObject`)},
}

// Frameworks is grouped by category; categories and names are ordered by
// display precedence.
var Frameworks = []FrameworkEntry{
	{model.CategoryWeb, model.FrameworkDjango, compile(`django`, `urls\.py`, `models\.py`, `views\.py`,
		`from\s+django`, `@admin\.register`)},
	{model.CategoryWeb, model.FrameworkFlask, compile(`flask`, `Flask\s*\(`, `from\s+flask`, `@app\.route`,
		`Blueprint\s*\(`)},
	{model.CategoryWeb, model.FrameworkFastAPI, compile(`fastapi`, `FastAPI\s*\(`, `from\s+fastapi`,
		`@app\.get`, `@app\.post`)},
	{model.CategoryWeb, model.FrameworkExpress, compile(`express`, `app\s*=\s*express\s*\(\)`,
		`router\s*=\s*express\.Router`, `app\.use\s*\(`, `app\.get\s*\(`)},
	{model.CategoryWeb, model.FrameworkReact, compile(`react`, `ReactDOM`, `useState`, `useEffect`,
		`import\s+React`, `extends\s+Component`, `<\w+\s+.*/>`)},
	{model.CategoryWeb, model.FrameworkAngular, compile(`@angular`, `NgModule`, `Component\s*\(\s*\{`,
		`Injectable`, `import\s+\{\s*.*\s*\}\s+from\s+['"]@angular`)},
	{model.CategoryWeb, model.FrameworkVue, compile(`vue`, `Vue\s*\(`, `createApp`, `new\s+Vue`,
		`<template>`, `v-for`, `v-if`)},
	{model.CategoryWeb, model.FrameworkSpring, compile(`@RestController`, `@Service`, `@Repository`,
		`@Autowired`, `@SpringBootApplication`, `SpringApplication\.run`)},
	{model.CategoryWeb, model.FrameworkRails, compile(`ActiveRecord`, `Rails`, `ApplicationController`,
		`has_many`, `belongs_to`, `validates`)},

	{model.CategoryDataScience, model.FrameworkPandas, compile(`pandas`, `pd\.DataFrame`, `pd\.read_csv`,
		`pd\.Series`, `pd\.concat`)},
	{model.CategoryDataScience, model.FrameworkNumPy, compile(`numpy`, `np\.array`, `np\.zeros`, `np\.ones`,
		`np\.random`)},
	{model.CategoryDataScience, model.FrameworkSciPy, compile(`scipy`, `from\s+scipy`)},
	{model.CategoryDataScience, model.FrameworkMatplotlib, compile(`matplotlib`, `plt\.`, `pyplot`)},
	{model.CategoryDataScience, model.FrameworkSeaborn, compile(`seaborn`, `sns\.`, `import\s+seaborn`)},
	{model.CategoryDataScience, model.FrameworkScikitLearn, compile(`sklearn`, `from\s+sklearn`,
		`train_test_split`, `RandomForest`, `LogisticRegression`)},
	{model.CategoryDataScience, model.FrameworkTensorFlow, compile(`tensorflow`, `tf\.`, `keras`,
		`Sequential\s*\(`, `Model\s*\(`, `tf\.data`)},
	{model.CategoryDataScience, model.FrameworkPyTorch, compile(`torch`, `nn\.Module`, `optim\.`,
		`DataLoader`, `from\s+torch`)},
	{model.CategoryDataScience, model.FrameworkDask, compile(`dask`, `from\s+dask`, `dask\.dataframe`,
		`dask\.array`)},
	{model.CategoryDataScience, model.FrameworkSpark, compile(`pyspark`, `SparkContext`, `SparkSession`,
		`spark\.`, `RDD`, `createDataFrame`)},

	{model.CategoryMobile, model.FrameworkReactNative, compile(`react-native`, `from\s+react-native`,
		`ReactNative`, `StyleSheet\.create`)},
	{model.CategoryMobile, model.FrameworkFlutter, compile(`flutter`, `StatelessWidget`, `StatefulWidget`,
		`Widget\s+build`, `MaterialApp`)},
	{model.CategoryMobile, model.FrameworkAndroid, compile(`androidx`, `android\.`, `Activity`, `Fragment`,
		`Intent`, `setContentView`)},
	{model.CategoryMobile, model.FrameworkIOS, compile(`UIKit`, `SwiftUI`, `UIViewController`, `AppDelegate`,
		`@IBOutlet`, `@IBAction`)},

	{model.CategoryDevOps, model.FrameworkDocker, compile(`Dockerfile`, `docker-compose`, `FROM\s+\w+`,
		`ENTRYPOINT`, `CMD`, `EXPOSE`)},
	{model.CategoryDevOps, model.FrameworkKubernetes, compile(`kubectl`, `apiVersion:`, `kind:`, `metadata:`,
		`Deployment`, `Service`, `Pod`)},
	{model.CategoryDevOps, model.FrameworkTerraform, compile(`terraform`, `provider\s+['"]`, `resource\s+['"]`,
		`module\s+['"]`, `aws_`, `azure_`, `google_`)},
	{model.CategoryDevOps, model.FrameworkAnsible, compile(`ansible`, `playbook`, `tasks:`, `hosts:`,
		`become:`, `with_items:`)},
	{model.CategoryDevOps, model.FrameworkJenkins, compile(`Jenkinsfile`, `pipeline\s*\{`, `stage\s*\(`,
		`steps\s*\{`, `agent`)},
}
